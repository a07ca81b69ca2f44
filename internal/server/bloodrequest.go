package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	bloodrequestdomain "github.com/lifedrop/lifedrop/internal/bloodrequest/domain"
)

type bloodRequestDTO struct {
	ID                 string     `json:"id"`
	User               string     `json:"user"`
	PatientName        string     `json:"patientName"`
	Age                int        `json:"age"`
	Gender             string     `json:"gender"`
	BloodType          string     `json:"bloodType"`
	UnitsRequired      int        `json:"unitsRequired"`
	UrgencyLevel       string     `json:"urgencyLevel"`
	WardNumber         string     `json:"wardNumber"`
	ContactNumber      string     `json:"contactNumber"`
	MedicalCondition   string     `json:"medicalCondition"`
	SurgeryDate        *time.Time `json:"surgeryDate,omitempty"`
	AdditionalNotes    string     `json:"additionalNotes,omitempty"`
	DTFormUpload       string     `json:"dtFormUpload,omitempty"`
	Status             string     `json:"status"`
	ConfirmationStatus string     `json:"confirmationStatus"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func toBloodRequestDTO(request bloodrequestdomain.BloodRequest) bloodRequestDTO {
	return bloodRequestDTO{
		ID:                 request.ID.String(),
		User:               request.UserID,
		PatientName:        request.PatientName,
		Age:                request.Age,
		Gender:             request.Gender,
		BloodType:          request.BloodType,
		UnitsRequired:      request.UnitsRequired,
		UrgencyLevel:       request.UrgencyLevel,
		WardNumber:         request.WardNumber,
		ContactNumber:      request.ContactNumber,
		MedicalCondition:   request.MedicalCondition,
		SurgeryDate:        request.SurgeryDate,
		AdditionalNotes:    request.AdditionalNotes,
		DTFormUpload:       request.DTFormUpload,
		Status:             request.Status,
		ConfirmationStatus: request.ConfirmationStatus,
		CreatedAt:          request.CreatedAt,
		UpdatedAt:          request.UpdatedAt,
	}
}

type createBloodRequestRequest struct {
	User             string     `json:"user"`
	PatientName      string     `json:"patientName"`
	Age              int        `json:"age"`
	Gender           string     `json:"gender"`
	BloodType        string     `json:"bloodType"`
	UnitsRequired    int        `json:"unitsRequired"`
	UrgencyLevel     string     `json:"urgencyLevel"`
	WardNumber       string     `json:"wardNumber"`
	ContactNumber    string     `json:"contactNumber"`
	MedicalCondition string     `json:"medicalCondition"`
	SurgeryDate      *time.Time `json:"surgeryDate"`
	AdditionalNotes  string     `json:"additionalNotes"`
	DTFormUpload     string     `json:"dtFormUpload"`
}

func (s *Server) CreateBloodRequest(c *gin.Context) {
	var req createBloodRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	request, err := s.bloodRequestSvc.Create(c.Request.Context(), bloodrequestdomain.CreateRequest{
		UserID:           req.User,
		PatientName:      req.PatientName,
		Age:              req.Age,
		Gender:           req.Gender,
		BloodType:        req.BloodType,
		UnitsRequired:    req.UnitsRequired,
		UrgencyLevel:     req.UrgencyLevel,
		WardNumber:       req.WardNumber,
		ContactNumber:    req.ContactNumber,
		MedicalCondition: req.MedicalCondition,
		SurgeryDate:      req.SurgeryDate,
		AdditionalNotes:  req.AdditionalNotes,
		DTFormUpload:     req.DTFormUpload,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Blood request created successfully",
		"bloodRequest": toBloodRequestDTO(request),
		"statusCode":   http.StatusCreated,
	})
}

type updateBloodRequestRequest struct {
	PatientName        *string    `json:"patientName"`
	Age                *int       `json:"age"`
	Gender             *string    `json:"gender"`
	BloodType          *string    `json:"bloodType"`
	UnitsRequired      *int       `json:"unitsRequired"`
	UrgencyLevel       *string    `json:"urgencyLevel"`
	WardNumber         *string    `json:"wardNumber"`
	ContactNumber      *string    `json:"contactNumber"`
	MedicalCondition   *string    `json:"medicalCondition"`
	SurgeryDate        *time.Time `json:"surgeryDate"`
	AdditionalNotes    *string    `json:"additionalNotes"`
	DTFormUpload       *string    `json:"dtFormUpload"`
	Status             *string    `json:"status"`
	ConfirmationStatus *string    `json:"confirmationStatus"`
	User               *string    `json:"user"`
}

func (s *Server) UpdateBloodRequest(c *gin.Context) {
	var req updateBloodRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	request, err := s.bloodRequestSvc.Update(c.Request.Context(), c.Param("id"), bloodrequestdomain.UpdateRequest{
		PatientName:        req.PatientName,
		Age:                req.Age,
		Gender:             req.Gender,
		BloodType:          req.BloodType,
		UnitsRequired:      req.UnitsRequired,
		UrgencyLevel:       req.UrgencyLevel,
		WardNumber:         req.WardNumber,
		ContactNumber:      req.ContactNumber,
		MedicalCondition:   req.MedicalCondition,
		SurgeryDate:        req.SurgeryDate,
		AdditionalNotes:    req.AdditionalNotes,
		DTFormUpload:       req.DTFormUpload,
		Status:             req.Status,
		ConfirmationStatus: req.ConfirmationStatus,
		UserID:             req.User,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Blood request updated successfully",
		"bloodRequest": toBloodRequestDTO(request),
		"statusCode":   http.StatusOK,
	})
}

func (s *Server) UpdateBloodRequestStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	request, err := s.bloodRequestSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Status updated successfully",
		"bloodRequest": toBloodRequestDTO(request),
		"statusCode":   http.StatusOK,
	})
}

func (s *Server) UpdateBloodRequestConfirmation(c *gin.Context) {
	var req struct {
		ConfirmationStatus string `json:"confirmationStatus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	request, err := s.bloodRequestSvc.UpdateConfirmation(c.Request.Context(), c.Param("id"), req.ConfirmationStatus)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Confirmation status updated successfully",
		"bloodRequest": toBloodRequestDTO(request),
		"statusCode":   http.StatusOK,
	})
}

func (s *Server) DeleteBloodRequest(c *gin.Context) {
	if err := s.bloodRequestSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Blood request deleted successfully",
		"statusCode": http.StatusOK,
	})
}

func (s *Server) GetBloodRequestByID(c *gin.Context) {
	request, err := s.bloodRequestSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Blood request retrieved successfully",
		"bloodRequest": toBloodRequestDTO(request),
		"statusCode":   http.StatusOK,
	})
}

func (s *Server) ListBloodRequests(c *gin.Context) {
	requests, err := s.bloodRequestSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dtos := make([]bloodRequestDTO, 0, len(requests))
	for _, request := range requests {
		dtos = append(dtos, toBloodRequestDTO(request))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Blood requests retrieved successfully",
		"bloodRequests": dtos,
		"count":         len(dtos),
		"statusCode":    http.StatusOK,
	})
}

func (s *Server) ListBloodRequestsByUser(c *gin.Context) {
	requests, err := s.bloodRequestSvc.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dtos := make([]bloodRequestDTO, 0, len(requests))
	for _, request := range requests {
		dtos = append(dtos, toBloodRequestDTO(request))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Blood requests for user retrieved successfully",
		"bloodRequests": dtos,
		"count":         len(dtos),
		"statusCode":    http.StatusOK,
	})
}
