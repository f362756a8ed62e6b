package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/driveloop/service-rental/pkg/domain"
)

// Envelope is the standard JSON response body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: message})
}

// Paginated writes a 200 response with items and pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"pagination": gin.H{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": totalPages,
		},
	})
}

// Error maps a typed domain error to its HTTP status. Anything unclassified
// surfaces as a generic 500 without leaking internal detail.
func Error(c *gin.Context, err error) {
	var (
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
		validation *domain.ValidationError
		forbidden  *domain.ForbiddenError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, Envelope{Success: false, Error: notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, Envelope{Success: false, Error: conflict.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: validation.Error()})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, Envelope{Success: false, Error: forbidden.Error()})
	default:
		_ = c.Error(err) // picked up by the logging middleware
		c.JSON(http.StatusInternalServerError, Envelope{Success: false, Error: "internal server error"})
	}
}
