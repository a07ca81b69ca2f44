package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	bloodrequestdomain "github.com/lifedrop/lifedrop/internal/bloodrequest/domain"
	campdomain "github.com/lifedrop/lifedrop/internal/camp/domain"
	inventorydomain "github.com/lifedrop/lifedrop/internal/inventory/domain"
	notificationdomain "github.com/lifedrop/lifedrop/internal/notification/domain"
)

var ErrInvalidRequest = errors.New("invalid_request")

type errorResponse struct {
	Message        string `json:"message"`
	StatusCode     int    `json:"statusCode"`
	Err            string `json:"error,omitempty"`
	AvailableUnits *int   `json:"availableUnits,omitempty"`
}

// ErrorHandlingMiddleware converts domain errors recorded via c.Error
// into the wire envelope. Handlers that already wrote a body win.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorResponse) {
	var insufficient *inventorydomain.InsufficientStockError
	if errors.As(err, &insufficient) {
		available := insufficient.Available
		return http.StatusBadRequest, errorResponse{
			Message:        "Not enough units in stock",
			StatusCode:     http.StatusBadRequest,
			AvailableUnits: &available,
		}
	}

	switch {
	case errors.Is(err, ErrInvalidRequest):
		return badRequest("Invalid request body")

	case errors.Is(err, inventorydomain.ErrMissingFields):
		return badRequest("All required fields must be provided")
	case errors.Is(err, inventorydomain.ErrInvalidUnits):
		return badRequest("Units must be a positive number")
	case errors.Is(err, inventorydomain.ErrInvalidID):
		return badRequest("Invalid id")
	case errors.Is(err, inventorydomain.ErrPacketNotFound):
		return notFound("Blood inventory entry not found")
	case errors.Is(err, inventorydomain.ErrBloodTypeNotFound):
		return notFound("Blood type not found in inventory")

	case errors.Is(err, bloodrequestdomain.ErrMissingUser):
		return badRequest("userId is required")
	case errors.Is(err, bloodrequestdomain.ErrMissingStatus):
		return badRequest("Status is required")
	case errors.Is(err, bloodrequestdomain.ErrMissingConfirmation):
		return badRequest("Confirmation status is required")
	case errors.Is(err, bloodrequestdomain.ErrMissingFields):
		return badRequest("All required fields must be provided")
	case errors.Is(err, bloodrequestdomain.ErrInvalidID):
		return badRequest("Invalid id")
	case errors.Is(err, bloodrequestdomain.ErrNotFound):
		return notFound("Blood request not found")

	case errors.Is(err, notificationdomain.ErrMissingUser):
		return badRequest("userId is required")
	case errors.Is(err, notificationdomain.ErrMissingFields):
		return badRequest("All required fields must be provided")
	case errors.Is(err, notificationdomain.ErrInvalidID):
		return badRequest("Invalid id")
	case errors.Is(err, notificationdomain.ErrNotFound):
		return notFound("Notification not found")

	case errors.Is(err, campdomain.ErrMissingUser):
		return badRequest("userId is required")
	case errors.Is(err, campdomain.ErrMissingFields):
		return badRequest("All required fields must be provided")
	case errors.Is(err, campdomain.ErrInvalidID):
		return badRequest("Invalid id")
	case errors.Is(err, campdomain.ErrCampNotFound):
		return notFound("Camp not found")
	case errors.Is(err, campdomain.ErrDuplicateRegistration):
		return http.StatusConflict, errorResponse{
			Message:    "User already registered for this camp",
			StatusCode: http.StatusConflict,
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Message:    "Server error",
		StatusCode: http.StatusInternalServerError,
		Err:        err.Error(),
	}
}

func badRequest(message string) (int, errorResponse) {
	return http.StatusBadRequest, errorResponse{
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func notFound(message string) (int, errorResponse) {
	return http.StatusNotFound, errorResponse{
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}
