package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	bloodrequestdomain "github.com/lifedrop/lifedrop/internal/bloodrequest/domain"
	campdomain "github.com/lifedrop/lifedrop/internal/camp/domain"
	"github.com/lifedrop/lifedrop/internal/config"
	inventorydomain "github.com/lifedrop/lifedrop/internal/inventory/domain"
	issuancedomain "github.com/lifedrop/lifedrop/internal/issuance/domain"
	notificationdomain "github.com/lifedrop/lifedrop/internal/notification/domain"
	"github.com/lifedrop/lifedrop/internal/observability"
	obslogger "github.com/lifedrop/lifedrop/internal/observability/logger"
	obsmetrics "github.com/lifedrop/lifedrop/internal/observability/metrics"
	obstracing "github.com/lifedrop/lifedrop/internal/observability/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware(obsCfg.ServiceName))
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	inventorySvc    inventorydomain.Service
	issuanceSvc     issuancedomain.Service
	bloodRequestSvc bloodrequestdomain.Service
	notificationSvc notificationdomain.Service
	campSvc         campdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	InventorySvc    inventorydomain.Service
	IssuanceSvc     issuancedomain.Service
	BloodRequestSvc bloodrequestdomain.Service
	NotificationSvc notificationdomain.Service
	CampSvc         campdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		inventorySvc:    p.InventorySvc,
		issuanceSvc:     p.IssuanceSvc,
		bloodRequestSvc: p.BloodRequestSvc,
		notificationSvc: p.NotificationSvc,
		campSvc:         p.CampSvc,
	}
}

func (s *Server) RegisterRoutes() {
	inventory := s.engine.Group("/blood-inventory")
	{
		inventory.POST("/create", s.CreateBloodInventory)
		inventory.PUT("/update/:id", s.UpdateBloodInventory)
		inventory.DELETE("/delete/:id", s.DeleteBloodInventory)
		inventory.GET("/search/:packetId", s.SearchBloodByPacketID)
		inventory.GET("/summary/stock", s.GetBloodStockSummary)
		inventory.GET("/:id", s.GetBloodInventoryByID)
		inventory.GET("/", s.ListBloodInventory)
		inventory.POST("/issue", s.IssueBlood)
	}

	issues := s.engine.Group("/blood-issues")
	{
		issues.POST("/issue", s.IssueBloodWithLedger)
		issues.GET("/", s.ListBloodIssues)
	}

	requests := s.engine.Group("/blood-requests")
	{
		requests.POST("/create", s.CreateBloodRequest)
		requests.PUT("/update/:id", s.UpdateBloodRequest)
		requests.PATCH("/update-status/:id", s.UpdateBloodRequestStatus)
		requests.PATCH("/update-confirmation/:id", s.UpdateBloodRequestConfirmation)
		requests.DELETE("/delete/:id", s.DeleteBloodRequest)
		requests.GET("/get-all", s.ListBloodRequests)
		requests.GET("/get-by-user/:userId", s.ListBloodRequestsByUser)
		requests.GET("/:id", s.GetBloodRequestByID)
	}

	notifications := s.engine.Group("/notifications")
	{
		notifications.POST("/create", s.CreateNotification)
		notifications.GET("/get-all", s.ListNotifications)
		notifications.GET("/get-by-user/:userId", s.ListNotificationsByUser)
		notifications.PATCH("/mark-read/:id", s.MarkNotificationRead)
		notifications.DELETE("/delete/:id", s.DeleteNotification)
	}

	camps := s.engine.Group("/camps")
	{
		camps.POST("/create", s.CreateCamp)
		camps.PUT("/update/:id", s.UpdateCamp)
		camps.DELETE("/delete/:id", s.DeleteCamp)
		camps.GET("/:id", s.GetCampByID)
		camps.GET("/", s.ListCamps)
	}

	registrations := s.engine.Group("/camp-registrations")
	{
		registrations.POST("/register", s.RegisterForCamp)
		registrations.GET("/user/:userId", s.ListCampRegistrationsByUser)
		registrations.GET("/", s.ListCampRegistrations)
	}
}

func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
