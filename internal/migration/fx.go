package migration

import (
	bloodrequestdomain "github.com/lifedrop/lifedrop/internal/bloodrequest/domain"
	campdomain "github.com/lifedrop/lifedrop/internal/camp/domain"
	"github.com/lifedrop/lifedrop/internal/config"
	"github.com/lifedrop/lifedrop/internal/events"
	inventorydomain "github.com/lifedrop/lifedrop/internal/inventory/domain"
	issuancedomain "github.com/lifedrop/lifedrop/internal/issuance/domain"
	notificationdomain "github.com/lifedrop/lifedrop/internal/notification/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Non-postgres dialects (mysql, sqlite) fall back to gorm's
		// schema sync.
		return conn.AutoMigrate(
			&inventorydomain.BloodPacket{},
			&issuancedomain.IssuanceRecord{},
			&bloodrequestdomain.BloodRequest{},
			&notificationdomain.Notification{},
			&campdomain.Camp{},
			&campdomain.CampRegistration{},
			&events.OutboxEvent{},
		)
	}),
)
