package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/driveloop/service-rental/internal/application"
	"github.com/driveloop/service-rental/pkg/auth"
	"github.com/driveloop/service-rental/pkg/middleware"
	"github.com/driveloop/service-rental/pkg/response"
)

// BookingHandler handles HTTP requests for customer booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all customer booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/availability", h.CheckAvailability)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.UpdateBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListMyBookings handles GET /api/v1/bookings. Customers see their own
// bookings only.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetUserBookings(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// CheckAvailability handles GET /api/v1/bookings/availability.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Query("vehicle_id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}
	start, err := time.Parse(time.RFC3339, c.Query("booking_date"))
	if err != nil {
		response.BadRequest(c, "invalid booking date")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("return_date"))
	if err != nil {
		response.BadRequest(c, "invalid return date")
		return
	}

	var excludeID *uuid.UUID
	if raw := c.Query("exclude_booking_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid exclude booking ID")
			return
		}
		excludeID = &id
	}

	result, err := h.service.CheckAvailability(c.Request.Context(), vehicleID, start, end, excludeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id. Staff can view any booking,
// customers only their own.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var result *application.BookingDTO
	if isStaff(c) {
		result, err = h.service.GetBooking(c.Request.Context(), bookingID)
	} else {
		result, err = h.service.GetUserBooking(c.Request.Context(), userID, bookingID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBooking handles PATCH /api/v1/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBooking(c.Request.Context(), bookingID, userID, isStaff(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.CancelBooking(c.Request.Context(), bookingID, userID, isStaff(c), body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// isStaff reports whether the caller holds a staff or admin role.
func isStaff(c *gin.Context) bool {
	role, ok := middleware.GetUserRole(c)
	return ok && (role == auth.RoleStaff || role == auth.RoleAdmin)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
