package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusUnread = "unread"
	StatusRead   = "read"

	TypeBloodRequest = "blood-request"
	TypeIssuance     = "blood-issue"
)

// Notification is an in-app message for one user. Delivery transports
// (push, email) are outside this service.
type Notification struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID         string       `gorm:"not null;index" json:"user"`
	Type           string       `gorm:"not null" json:"type"`
	Message        string       `gorm:"not null" json:"message"`
	RelatedRequest string       `gorm:"index" json:"relatedRequest,omitempty"`
	Status         string       `gorm:"not null;default:unread" json:"status"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Notification) TableName() string { return "notifications" }
