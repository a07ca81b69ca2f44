package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	inventorydomain "github.com/lifedrop/lifedrop/internal/inventory/domain"
)

type bloodInventoryDTO struct {
	ID           string    `json:"id"`
	PacketID     string    `json:"packetId"`
	BloodType    string    `json:"bloodType"`
	Units        int       `json:"units"`
	DonorName    string    `json:"donorName"`
	DonorPhone   string    `json:"donorPhone"`
	DonorAge     int       `json:"donorAge"`
	DonationDate time.Time `json:"donationDate"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toBloodInventoryDTO(packet inventorydomain.BloodPacket) bloodInventoryDTO {
	return bloodInventoryDTO{
		ID:           packet.ID.String(),
		PacketID:     packet.PacketID,
		BloodType:    packet.BloodType,
		Units:        packet.Units,
		DonorName:    packet.DonorName,
		DonorPhone:   packet.DonorPhone,
		DonorAge:     packet.DonorAge,
		DonationDate: packet.DonationDate,
		Notes:        packet.Notes,
		CreatedAt:    packet.CreatedAt,
		UpdatedAt:    packet.UpdatedAt,
	}
}

type stockSummaryDTO struct {
	BloodType      string    `json:"bloodType"`
	TotalUnits     int       `json:"totalUnits"`
	TotalPackets   int       `json:"totalPackets"`
	LatestDonation time.Time `json:"latestDonation"`
}

type createBloodInventoryRequest struct {
	BloodType    string    `json:"bloodType"`
	Units        int       `json:"units"`
	DonorName    string    `json:"donorName"`
	DonorPhone   string    `json:"donorPhone"`
	DonorAge     int       `json:"donorAge"`
	DonationDate time.Time `json:"donationDate"`
	Notes        string    `json:"notes"`
}

func (s *Server) CreateBloodInventory(c *gin.Context) {
	var req createBloodInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	packet, err := s.inventorySvc.CreatePacket(c.Request.Context(), inventorydomain.CreatePacketRequest{
		BloodType:    req.BloodType,
		Units:        req.Units,
		DonorName:    req.DonorName,
		DonorPhone:   req.DonorPhone,
		DonorAge:     req.DonorAge,
		DonationDate: req.DonationDate,
		Notes:        req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Blood inventory entry created successfully",
		"bloodInventory": toBloodInventoryDTO(packet),
		"statusCode":     http.StatusCreated,
	})
}

type updateBloodInventoryRequest struct {
	BloodType    *string    `json:"bloodType"`
	Units        *int       `json:"units"`
	DonorName    *string    `json:"donorName"`
	DonorPhone   *string    `json:"donorPhone"`
	DonorAge     *int       `json:"donorAge"`
	DonationDate *time.Time `json:"donationDate"`
	Notes        *string    `json:"notes"`
}

func (s *Server) UpdateBloodInventory(c *gin.Context) {
	var req updateBloodInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	packet, err := s.inventorySvc.UpdatePacket(c.Request.Context(), c.Param("id"), inventorydomain.UpdatePacketRequest{
		BloodType:    req.BloodType,
		Units:        req.Units,
		DonorName:    req.DonorName,
		DonorPhone:   req.DonorPhone,
		DonorAge:     req.DonorAge,
		DonationDate: req.DonationDate,
		Notes:        req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Blood inventory entry updated successfully",
		"bloodInventory": toBloodInventoryDTO(packet),
		"statusCode":     http.StatusOK,
	})
}

func (s *Server) DeleteBloodInventory(c *gin.Context) {
	if err := s.inventorySvc.DeletePacket(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Blood inventory entry deleted successfully",
		"statusCode": http.StatusOK,
	})
}

func (s *Server) GetBloodInventoryByID(c *gin.Context) {
	packet, err := s.inventorySvc.GetPacket(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Blood inventory entry retrieved successfully",
		"bloodInventory": toBloodInventoryDTO(packet),
		"statusCode":     http.StatusOK,
	})
}

func (s *Server) ListBloodInventory(c *gin.Context) {
	packets, err := s.inventorySvc.ListPackets(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dtos := make([]bloodInventoryDTO, 0, len(packets))
	for _, packet := range packets {
		dtos = append(dtos, toBloodInventoryDTO(packet))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Blood inventory entries retrieved successfully",
		"bloodInventory": dtos,
		"count":          len(dtos),
		"statusCode":     http.StatusOK,
	})
}

func (s *Server) SearchBloodByPacketID(c *gin.Context) {
	packet, err := s.inventorySvc.SearchPacketByID(c.Request.Context(), c.Param("packetId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Blood inventory entry retrieved successfully",
		"bloodInventory": toBloodInventoryDTO(packet),
		"statusCode":     http.StatusOK,
	})
}

func (s *Server) GetBloodStockSummary(c *gin.Context) {
	summaries, err := s.inventorySvc.StockSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dtos := make([]stockSummaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		dtos = append(dtos, stockSummaryDTO{
			BloodType:      summary.BloodType,
			TotalUnits:     summary.TotalUnits,
			TotalPackets:   summary.TotalPackets,
			LatestDonation: summary.LatestDonation,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Blood stock summary retrieved successfully",
		"summary":    dtos,
		"statusCode": http.StatusOK,
	})
}

type issueBloodRequest struct {
	BloodType    string `json:"bloodType"`
	UnitsToIssue int    `json:"unitsToIssue"`
	RequestID    string `json:"requestId"`
	DoctorName   string `json:"doctorName"`
	PatientName  string `json:"patientName"`
	Reason       string `json:"reason"`
}

// IssueBlood is the inventory-side issuance endpoint. It shares the
// transactional issue path with the ledger endpoint and reports the
// flat response shape.
func (s *Server) IssueBlood(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"message":        "Blood issued successfully",
		"bloodType":      result.Record.BloodType,
		"unitsIssued":    result.Record.UnitsIssued,
		"remainingUnits": result.RemainingUnits,
		"requestId":      result.Record.RequestID,
		"doctorName":     result.Record.DoctorName,
		"patientName":    result.Record.PatientName,
		"reason":         result.Record.Reason,
		"statusCode":     http.StatusOK,
	})
}
