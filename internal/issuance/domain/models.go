package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// IssuanceRecord is one row of the issuance ledger. Rows are written
// once by the issue path and never updated or deleted. RemainingUnits
// snapshots the debited packet's balance after the decrement; the row
// carries no packet foreign key so later packet edits or deletes do
// not rewrite history.
type IssuanceRecord struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	BloodType      string       `gorm:"not null;index" json:"bloodType"`
	UnitsIssued    int          `gorm:"not null" json:"unitsIssued"`
	RemainingUnits int          `gorm:"not null" json:"remainingUnits"`
	RequestID      string       `gorm:"index" json:"requestId,omitempty"`
	DoctorName     string       `json:"doctorName,omitempty"`
	PatientName    string       `json:"patientName,omitempty"`
	Reason         string       `json:"reason,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (IssuanceRecord) TableName() string { return "blood_issues" }
