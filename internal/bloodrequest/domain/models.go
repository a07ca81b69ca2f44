package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending = "pending"

	ConfirmationUnconfirmed = "unconfirmed"
	ConfirmationConfirmed   = "confirmed"
)

// BloodRequest is a clinical request for units of a blood type.
// DTFormUpload carries an opaque reference to an externally stored
// form; this service never touches the file itself.
type BloodRequest struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID             string       `gorm:"not null;index" json:"user"`
	PatientName        string       `gorm:"not null" json:"patientName"`
	Age                int          `gorm:"not null" json:"age"`
	Gender             string       `gorm:"not null" json:"gender"`
	BloodType          string       `gorm:"not null;index" json:"bloodType"`
	UnitsRequired      int          `gorm:"not null" json:"unitsRequired"`
	UrgencyLevel       string       `gorm:"not null" json:"urgencyLevel"`
	WardNumber         string       `gorm:"not null" json:"wardNumber"`
	ContactNumber      string       `gorm:"not null" json:"contactNumber"`
	MedicalCondition   string       `gorm:"not null" json:"medicalCondition"`
	SurgeryDate        *time.Time   `json:"surgeryDate,omitempty"`
	AdditionalNotes    string       `json:"additionalNotes,omitempty"`
	DTFormUpload       string       `json:"dtFormUpload,omitempty"`
	Status             string       `gorm:"not null;default:pending;index" json:"status"`
	ConfirmationStatus string       `gorm:"not null;default:unconfirmed" json:"confirmationStatus"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (BloodRequest) TableName() string { return "blood_requests" }
