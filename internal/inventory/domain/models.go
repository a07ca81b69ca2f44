package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BloodPacket is one donation batch. Units only decrease through the
// issue path; the invariant units >= 0 is enforced by the conditional
// decrement in the repository.
type BloodPacket struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	PacketID     string       `gorm:"not null;uniqueIndex" json:"packetId"`
	BloodType    string       `gorm:"not null;index" json:"bloodType"`
	Units        int          `gorm:"not null" json:"units"`
	DonorName    string       `gorm:"not null" json:"donorName"`
	DonorPhone   string       `gorm:"not null" json:"donorPhone"`
	DonorAge     int          `gorm:"not null" json:"donorAge"`
	DonationDate time.Time    `gorm:"not null" json:"donationDate"`
	Notes        string       `json:"notes,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (BloodPacket) TableName() string { return "blood_packets" }

// StockSummary is the per-type aggregate view.
type StockSummary struct {
	BloodType      string    `json:"bloodType"`
	TotalUnits     int       `json:"totalUnits"`
	TotalPackets   int       `json:"totalPackets"`
	LatestDonation time.Time `json:"latestDonation"`
}
