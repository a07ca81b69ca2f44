package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Camp struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	CampName      string       `gorm:"not null" json:"campName"`
	Place         string       `gorm:"not null" json:"place"`
	Date          string       `gorm:"not null" json:"date"`
	Time          string       `gorm:"not null" json:"time"`
	ContactNumber string       `gorm:"not null" json:"contactNumber"`
	EmailAddress  string       `gorm:"not null" json:"emailAddress"`
	Organizer     string       `gorm:"not null" json:"organizer"`
	Message       string       `json:"message,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Camp) TableName() string { return "camps" }

// CampRegistration links one user to one camp; the pair is unique.
type CampRegistration struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    string       `gorm:"not null;uniqueIndex:ux_camp_registrations_user_camp,priority:1" json:"userId"`
	CampID    snowflake.ID `gorm:"not null;uniqueIndex:ux_camp_registrations_user_camp,priority:2;index" json:"campId"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (CampRegistration) TableName() string { return "camp_registrations" }
