package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/driveloop/service-rental/internal/application"
	bookingDomain "github.com/driveloop/service-rental/internal/domain/booking"
	"github.com/driveloop/service-rental/pkg/auth"
	"github.com/driveloop/service-rental/pkg/middleware"
	"github.com/driveloop/service-rental/pkg/response"
)

// AdminBookingHandler handles staff HTTP requests for booking management.
type AdminBookingHandler struct {
	service *application.BookingService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// RegisterRoutes registers admin booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	staffRole := middleware.RequireRole(auth.RoleStaff, auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, staffRole)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/search", h.SearchBookings)
		admin.GET("/bookings/reminders", h.UpcomingReminders)
		admin.POST("/bookings/bulk-confirm", h.BulkConfirm)
		admin.POST("/bookings/bulk-cancel", h.BulkCancel)
		admin.POST("/bookings/sweep-overdue", h.SweepOverdue)
		admin.POST("/bookings/:id/confirm", h.ConfirmBooking)
		admin.POST("/bookings/:id/check-in", h.CheckInBooking)
		admin.POST("/bookings/:id/complete", h.CompleteBooking)
		admin.DELETE("/bookings/:id", h.DeleteBooking)
		admin.GET("/stats/bookings", h.BookingStats)
		admin.GET("/stats/revenue", h.RevenueStats)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)
	result, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// SearchBookings handles GET /api/v1/admin/bookings/search.
func (h *AdminBookingHandler) SearchBookings(c *gin.Context) {
	var filter bookingDomain.SearchFilter
	filter.Term = c.Query("q")

	if raw := c.Query("status"); raw != "" {
		filter.Status = bookingDomain.Status(raw)
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid user ID")
			return
		}
		filter.UserID = id
	}
	if raw := c.Query("vehicle_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid vehicle ID")
			return
		}
		filter.VehicleID = id
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "invalid date_from")
			return
		}
		filter.DateFrom = t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "invalid date_to")
			return
		}
		filter.DateTo = t
	}

	page, limit := parsePagination(c)
	result, err := h.service.SearchBookings(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ConfirmBooking handles POST /api/v1/admin/bookings/:id/confirm.
func (h *AdminBookingHandler) ConfirmBooking(c *gin.Context) {
	h.applyTransition(c, h.service.ConfirmBooking)
}

// CheckInBooking handles POST /api/v1/admin/bookings/:id/check-in.
func (h *AdminBookingHandler) CheckInBooking(c *gin.Context) {
	h.applyTransition(c, h.service.CheckInBooking)
}

// CompleteBooking handles POST /api/v1/admin/bookings/:id/complete.
func (h *AdminBookingHandler) CompleteBooking(c *gin.Context) {
	h.applyTransition(c, h.service.CompleteBooking)
}

func (h *AdminBookingHandler) applyTransition(c *gin.Context, op func(context.Context, uuid.UUID) (*application.BookingDTO, error)) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := op(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBooking handles DELETE /api/v1/admin/bookings/:id.
func (h *AdminBookingHandler) DeleteBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), bookingID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	stats, err := h.service.GetBookingStats(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// RevenueStats handles GET /api/v1/admin/stats/revenue.
func (h *AdminBookingHandler) RevenueStats(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}
	granularity := c.DefaultQuery("granularity", "day")

	buckets, err := h.service.GetRevenueSeries(c.Request.Context(), from, to, granularity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, buckets)
}

// UpcomingReminders handles GET /api/v1/admin/bookings/reminders.
func (h *AdminBookingHandler) UpcomingReminders(c *gin.Context) {
	within := 48 * time.Hour
	if raw := c.Query("within_hours"); raw != "" {
		hours, err := time.ParseDuration(raw + "h")
		if err != nil {
			response.BadRequest(c, "invalid within_hours")
			return
		}
		within = hours
	}

	reminders, err := h.service.GetUpcomingReminders(c.Request.Context(), within)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, reminders)
}

type bulkRequest struct {
	IDs    []uuid.UUID `json:"ids" binding:"required"`
	Reason string      `json:"reason"`
}

// BulkConfirm handles POST /api/v1/admin/bookings/bulk-confirm.
func (h *AdminBookingHandler) BulkConfirm(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.BulkConfirm(c.Request.Context(), req.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BulkCancel handles POST /api/v1/admin/bookings/bulk-cancel.
func (h *AdminBookingHandler) BulkCancel(c *gin.Context) {
	actorID, _ := middleware.GetUserID(c)

	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.BulkCancel(c.Request.Context(), req.IDs, actorID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SweepOverdue handles POST /api/v1/admin/bookings/sweep-overdue.
func (h *AdminBookingHandler) SweepOverdue(c *gin.Context) {
	ids, err := h.service.SweepOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"completed": ids})
}

// parsePeriod reads the from/to query parameters, defaulting to the last 30
// days. Returns ok=false after writing the error response.
func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "invalid from date")
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "invalid to date")
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	return from, to, true
}
