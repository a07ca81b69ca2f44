package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	campdomain "github.com/lifedrop/lifedrop/internal/camp/domain"
)

type campDTO struct {
	ID            string    `json:"id"`
	CampName      string    `json:"campName"`
	Place         string    `json:"place"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	ContactNumber string    `json:"contactNumber"`
	EmailAddress  string    `json:"emailAddress"`
	Organizer     string    `json:"organizer"`
	Message       string    `json:"message,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toCampDTO(camp campdomain.Camp) campDTO {
	return campDTO{
		ID:            camp.ID.String(),
		CampName:      camp.CampName,
		Place:         camp.Place,
		Date:          camp.Date,
		Time:          camp.Time,
		ContactNumber: camp.ContactNumber,
		EmailAddress:  camp.EmailAddress,
		Organizer:     camp.Organizer,
		Message:       camp.Message,
		CreatedAt:     camp.CreatedAt,
		UpdatedAt:     camp.UpdatedAt,
	}
}

type campRegistrationDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CampID    string    `json:"campId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCampRegistrationDTO(registration campdomain.CampRegistration) campRegistrationDTO {
	return campRegistrationDTO{
		ID:        registration.ID.String(),
		UserID:    registration.UserID,
		CampID:    registration.CampID.String(),
		CreatedAt: registration.CreatedAt,
		UpdatedAt: registration.UpdatedAt,
	}
}

type createCampRequest struct {
	CampName      string `json:"campName"`
	Place         string `json:"place"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	ContactNumber string `json:"contactNumber"`
	EmailAddress  string `json:"emailAddress"`
	Organizer     string `json:"organizer"`
	Message       string `json:"message"`
}

func (s *Server) CreateCamp(c *gin.Context) {
	var req createCampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	camp, err := s.campSvc.Create(c.Request.Context(), campdomain.CreateCampRequest{
		CampName:      req.CampName,
		Place:         req.Place,
		Date:          req.Date,
		Time:          req.Time,
		ContactNumber: req.ContactNumber,
		EmailAddress:  req.EmailAddress,
		Organizer:     req.Organizer,
		Message:       req.Message,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Camp created successfully",
		"camp":       toCampDTO(camp),
		"statusCode": http.StatusCreated,
	})
}

type updateCampRequest struct {
	CampName      *string `json:"campName"`
	Place         *string `json:"place"`
	Date          *string `json:"date"`
	Time          *string `json:"time"`
	ContactNumber *string `json:"contactNumber"`
	EmailAddress  *string `json:"emailAddress"`
	Organizer     *string `json:"organizer"`
	Message       *string `json:"message"`
}

func (s *Server) UpdateCamp(c *gin.Context) {
	var req updateCampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	camp, err := s.campSvc.Update(c.Request.Context(), c.Param("id"), campdomain.UpdateCampRequest{
		CampName:      req.CampName,
		Place:         req.Place,
		Date:          req.Date,
		Time:          req.Time,
		ContactNumber: req.ContactNumber,
		EmailAddress:  req.EmailAddress,
		Organizer:     req.Organizer,
		Message:       req.Message,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Camp updated successfully",
		"camp":       toCampDTO(camp),
		"statusCode": http.StatusOK,
	})
}

func (s *Server) DeleteCamp(c *gin.Context) {
	if err := s.campSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Camp deleted successfully",
		"statusCode": http.StatusOK,
	})
}

func (s *Server) GetCampByID(c *gin.Context) {
	camp, err := s.campSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Camp retrieved successfully",
		"camp":       toCampDTO(camp),
		"statusCode": http.StatusOK,
	})
}

func (s *Server) ListCamps(c *gin.Context) {
	camps, err := s.campSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dtos := make([]campDTO, 0, len(camps))
	for _, camp := range camps {
		dtos = append(dtos, toCampDTO(camp))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Camps retrieved successfully",
		"camps":      dtos,
		"count":      len(dtos),
		"statusCode": http.StatusOK,
	})
}

type registerForCampRequest struct {
	UserID string `json:"userId"`
	CampID string `json:"campId"`
}

func (s *Server) RegisterForCamp(c *gin.Context) {
	var req registerForCampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	registration, err := s.campSvc.Register(c.Request.Context(), campdomain.RegisterRequest{
		UserID: req.UserID,
		CampID: req.CampID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Registered for camp successfully",
		"registration": toCampRegistrationDTO(registration),
		"statusCode":   http.StatusCreated,
	})
}

func (s *Server) ListCampRegistrations(c *gin.Context) {
	registrations, err := s.campSvc.ListRegistrations(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dtos := make([]campRegistrationDTO, 0, len(registrations))
	for _, registration := range registrations {
		dtos = append(dtos, toCampRegistrationDTO(registration))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Camp registrations retrieved successfully",
		"registrations": dtos,
		"count":         len(dtos),
		"statusCode":    http.StatusOK,
	})
}

func (s *Server) ListCampRegistrationsByUser(c *gin.Context) {
	registrations, err := s.campSvc.ListRegistrationsByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dtos := make([]campRegistrationDTO, 0, len(registrations))
	for _, registration := range registrations {
		dtos = append(dtos, toCampRegistrationDTO(registration))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Camp registrations for user retrieved successfully",
		"registrations": dtos,
		"count":         len(dtos),
		"statusCode":    http.StatusOK,
	})
}
