package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	inventorydomain "github.com/lifedrop/lifedrop/internal/inventory/domain"
	issuancedomain "github.com/lifedrop/lifedrop/internal/issuance/domain"
)

type bloodIssueDTO struct {
	ID             string    `json:"id"`
	BloodType      string    `json:"bloodType"`
	UnitsIssued    int       `json:"unitsIssued"`
	RemainingUnits int       `json:"remainingUnits"`
	RequestID      string    `json:"requestId,omitempty"`
	DoctorName     string    `json:"doctorName,omitempty"`
	PatientName    string    `json:"patientName,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toBloodIssueDTO(record issuancedomain.IssuanceRecord) bloodIssueDTO {
	return bloodIssueDTO{
		ID:             record.ID.String(),
		BloodType:      record.BloodType,
		UnitsIssued:    record.UnitsIssued,
		RemainingUnits: record.RemainingUnits,
		RequestID:      record.RequestID,
		DoctorName:     record.DoctorName,
		PatientName:    record.PatientName,
		Reason:         record.Reason,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

// IssueBloodWithLedger issues units and returns the persisted ledger
// entry.
func (s *Server) IssueBloodWithLedger(c *gin.Context) {
	var req issueBloodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.inventorySvc.Issue(c.Request.Context(), inventorydomain.IssueRequest{
		BloodType:   req.BloodType,
		Units:       req.UnitsToIssue,
		RequestID:   req.RequestID,
		DoctorName:  req.DoctorName,
		PatientName: req.PatientName,
		Reason:      req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Blood issued and transaction saved successfully",
		"bloodIssue": toBloodIssueDTO(result.Record),
		"statusCode": http.StatusCreated,
	})
}

func (s *Server) ListBloodIssues(c *gin.Context) {
	records, err := s.issuanceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dtos := make([]bloodIssueDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toBloodIssueDTO(record))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Blood issue transactions retrieved successfully",
		"bloodIssues": dtos,
		"count":       len(dtos),
		"statusCode":  http.StatusOK,
	})
}
