package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	notificationdomain "github.com/lifedrop/lifedrop/internal/notification/domain"
)

type notificationDTO struct {
	ID             string    `json:"id"`
	User           string    `json:"user"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	RelatedRequest string    `json:"relatedRequest,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toNotificationDTO(notification notificationdomain.Notification) notificationDTO {
	return notificationDTO{
		ID:             notification.ID.String(),
		User:           notification.UserID,
		Type:           notification.Type,
		Message:        notification.Message,
		RelatedRequest: notification.RelatedRequest,
		Status:         notification.Status,
		CreatedAt:      notification.CreatedAt,
		UpdatedAt:      notification.UpdatedAt,
	}
}

type createNotificationRequest struct {
	User           string `json:"user"`
	Type           string `json:"type"`
	Message        string `json:"message"`
	RelatedRequest string `json:"relatedRequest"`
}

func (s *Server) CreateNotification(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	notification, err := s.notificationSvc.Create(c.Request.Context(), notificationdomain.CreateRequest{
		UserID:         req.User,
		Type:           req.Type,
		Message:        req.Message,
		RelatedRequest: req.RelatedRequest,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Notification created successfully",
		"notification": toNotificationDTO(notification),
		"statusCode":   http.StatusCreated,
	})
}

func (s *Server) ListNotifications(c *gin.Context) {
	notifications, err := s.notificationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dtos := make([]notificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		dtos = append(dtos, toNotificationDTO(notification))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Notifications retrieved successfully",
		"notifications": dtos,
		"count":         len(dtos),
		"statusCode":    http.StatusOK,
	})
}

func (s *Server) ListNotificationsByUser(c *gin.Context) {
	notifications, err := s.notificationSvc.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	dtos := make([]notificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		dtos = append(dtos, toNotificationDTO(notification))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Notifications for user retrieved successfully",
		"notifications": dtos,
		"count":         len(dtos),
		"statusCode":    http.StatusOK,
	})
}

func (s *Server) MarkNotificationRead(c *gin.Context) {
	if err := s.notificationSvc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Notification marked as read",
		"statusCode": http.StatusOK,
	})
}

func (s *Server) DeleteNotification(c *gin.Context) {
	if err := s.notificationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Notification deleted successfully",
		"statusCode": http.StatusOK,
	})
}
