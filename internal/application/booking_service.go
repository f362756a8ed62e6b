package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/driveloop/service-rental/internal/domain/booking"
	"github.com/driveloop/service-rental/pkg/domain"
	"github.com/driveloop/service-rental/pkg/kafka"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	VehicleID         uuid.UUID `json:"vehicle_id" binding:"required"`
	LocationID        uuid.UUID `json:"location_id" binding:"required"`
	BookingDate       time.Time `json:"booking_date" binding:"required"`
	ReturnDate        time.Time `json:"return_date" binding:"required"`
	InsuranceOption   string    `json:"insurance_option"`
	SpecialRequests   string    `json:"special_requests"`
	AdditionalDrivers string    `json:"additional_drivers"`
}

// UpdateBookingRequest holds a partial booking update. Nil fields are left
// unchanged.
type UpdateBookingRequest struct {
	BookingDate       *time.Time `json:"booking_date"`
	ReturnDate        *time.Time `json:"return_date"`
	InsuranceOption   *string    `json:"insurance_option"`
	SpecialRequests   *string    `json:"special_requests"`
	AdditionalDrivers *string    `json:"additional_drivers"`
	AdminNotes        *string    `json:"admin_notes"`
}

// PaymentDTO is the response representation of a booking's payment.
type PaymentDTO struct {
	ID              uuid.UUID `json:"id"`
	Amount          float64   `json:"amount"`
	Status          string    `json:"status"`
	PaymentIntentID string    `json:"payment_intent_id"`
	RefundReason    string    `json:"refund_reason,omitempty"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                 uuid.UUID   `json:"id"`
	UserID             uuid.UUID   `json:"user_id"`
	VehicleID          uuid.UUID   `json:"vehicle_id"`
	LocationID         uuid.UUID   `json:"location_id"`
	Status             string      `json:"status"`
	BookingDate        time.Time   `json:"booking_date"`
	ReturnDate         time.Time   `json:"return_date"`
	TotalAmount        float64     `json:"total_amount"`
	InsuranceOption    string      `json:"insurance_option,omitempty"`
	SpecialRequests    string      `json:"special_requests,omitempty"`
	AdditionalDrivers  string      `json:"additional_drivers,omitempty"`
	AdminNotes         string      `json:"admin_notes,omitempty"`
	CancellationReason string      `json:"cancellation_reason,omitempty"`
	Payment            *PaymentDTO `json:"payment,omitempty"`
	Version            int64       `json:"version"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// ConflictDTO describes one booking blocking a requested date range.
type ConflictDTO struct {
	BookingID   uuid.UUID `json:"booking_id"`
	BookingDate time.Time `json:"booking_date"`
	ReturnDate  time.Time `json:"return_date"`
	RenterName  string    `json:"renter_name,omitempty"`
}

// AvailabilityDTO is the result of an availability check.
type AvailabilityDTO struct {
	VehicleID uuid.UUID     `json:"vehicle_id"`
	Available bool          `json:"available"`
	Conflicts []ConflictDTO `json:"conflicts"`
}

// BulkFailure records one ID that a bulk operation could not process.
type BulkFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// BulkResult reports the per-ID outcome of a bulk operation.
type BulkResult struct {
	Succeeded []uuid.UUID   `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.Repository
	users     bookingDomain.UserDirectory
	vehicles  bookingDomain.VehicleCatalog
	locations bookingDomain.LocationDirectory
	payments  bookingDomain.PaymentProcessor
	pricing   bookingDomain.PricingStrategy
	producer  kafka.Publisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.Repository,
	users bookingDomain.UserDirectory,
	vehicles bookingDomain.VehicleCatalog,
	locations bookingDomain.LocationDirectory,
	payments bookingDomain.PaymentProcessor,
	pricing bookingDomain.PricingStrategy,
	producer kafka.Publisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		users:     users,
		vehicles:  vehicles,
		locations: locations,
		payments:  payments,
		pricing:   pricing,
		producer:  producer,
		logger:    logger,
	}
}

// CheckAvailability reports whether a vehicle is free for [start, end],
// listing the conflicting bookings when it is not. The answer is advisory;
// CreateBooking repeats the check under the vehicle row lock.
func (s *BookingService) CheckAvailability(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*AvailabilityDTO, error) {
	if !end.After(start) {
		return nil, domain.NewValidationError("return date must be after booking date")
	}
	if _, err := s.vehicles.Find(ctx, vehicleID); err != nil {
		return nil, err
	}

	conflicts, err := s.repo.FindConflicts(ctx, vehicleID, start, end, excludeID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ConflictDTO, len(conflicts))
	for i, c := range conflicts {
		dtos[i] = ConflictDTO{
			BookingID:   c.BookingID,
			BookingDate: c.BookingDate,
			ReturnDate:  c.ReturnDate,
			RenterName:  c.RenterName,
		}
	}
	return &AvailabilityDTO{
		VehicleID: vehicleID,
		Available: len(conflicts) == 0,
		Conflicts: dtos,
	}, nil
}

// CreateBooking creates a booking for the renter, pricing it from the
// vehicle's daily rate and creating the pending payment record atomically
// with the booking row.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	renter, err := s.users.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !renter.IsActive {
		return nil, domain.NewValidationError("user account is not active")
	}

	vehicle, err := s.vehicles.Find(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	exists, err := s.locations.Exists(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NewNotFoundError("Location", req.LocationID.String())
	}

	total, err := s.pricing.ComputeTotal(bookingDomain.PricingParams{
		DailyRate:       vehicle.DailyRate,
		Start:           req.BookingDate,
		End:             req.ReturnDate,
		InsuranceOption: req.InsuranceOption,
	})
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.New(
		userID,
		req.VehicleID,
		req.LocationID,
		req.BookingDate,
		req.ReturnDate,
		total,
		req.InsuranceOption,
		req.SpecialRequests,
		req.AdditionalDrivers,
	)
	if err != nil {
		return nil, err
	}

	payment, err := s.repo.Create(ctx, bk)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, bookingDomain.EventBookingCreated, bookingDomain.CreatedEvent{
		BookingID:       bk.ID(),
		UserID:          bk.UserID(),
		VehicleID:       bk.VehicleID(),
		BookingDate:     bk.BookingDate(),
		ReturnDate:      bk.ReturnDate(),
		TotalAmount:     bk.TotalAmount(),
		PaymentIntentID: payment.PaymentIntentID,
	})

	result := toBookingDTO(bk, payment)
	return &result, nil
}

// GetBooking retrieves a single booking with its payment record.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	payment, err := s.findPaymentIfAny(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk, payment)
	return &result, nil
}

// GetUserBooking retrieves a booking, enforcing that it belongs to the renter.
func (s *BookingService) GetUserBooking(ctx context.Context, userID, bookingID uuid.UUID) (*BookingDTO, error) {
	dto, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if dto.UserID != userID {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	return dto, nil
}

// GetUserBookings retrieves paginated bookings for a renter.
func (s *BookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	result, err := s.repo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return mapPage(result), nil
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	result, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return mapPage(result), nil
}

// SearchBookings returns bookings matching the filter (admin).
func (s *BookingService) SearchBookings(ctx context.Context, filter bookingDomain.SearchFilter, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewValidationError("invalid booking status: " + filter.Status.String())
	}
	result, err := s.repo.Search(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	return mapPage(result), nil
}

// UpdateBooking applies a partial update. Date or insurance changes reprice
// the booking and re-run the availability check; while the payment is still
// pending the payment amount follows the new total in the same transaction,
// and once the payment has completed price-affecting changes are rejected.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID, actorID uuid.UUID, isStaff bool, req UpdateBookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isStaff && bk.UserID() != actorID {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	if !bk.IsModifiable() {
		return nil, domain.NewValidationError("cannot modify booking in current status")
	}

	payment, err := s.findPaymentIfAny(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	repricing := req.BookingDate != nil || req.ReturnDate != nil ||
		(req.InsuranceOption != nil && *req.InsuranceOption != bk.InsuranceOption())

	opts := bookingDomain.UpdateOptions{}
	if repricing {
		if payment != nil && payment.Status == bookingDomain.PaymentCompleted {
			return nil, domain.NewValidationError("cannot change dates or insurance after payment has been completed")
		}

		start := bk.BookingDate()
		end := bk.ReturnDate()
		if req.BookingDate != nil {
			start = *req.BookingDate
		}
		if req.ReturnDate != nil {
			end = *req.ReturnDate
		}
		insurance := bk.InsuranceOption()
		if req.InsuranceOption != nil {
			insurance = *req.InsuranceOption
		}

		vehicle, err := s.vehicles.Find(ctx, bk.VehicleID())
		if err != nil {
			return nil, err
		}
		total, err := s.pricing.ComputeTotal(bookingDomain.PricingParams{
			DailyRate:       vehicle.DailyRate,
			Start:           start,
			End:             end,
			InsuranceOption: insurance,
		})
		if err != nil {
			return nil, err
		}

		if err := bk.Reschedule(start, end, total); err != nil {
			return nil, err
		}
		if req.InsuranceOption != nil {
			bk.SetInsuranceOption(insurance)
		}
		opts.RecheckAvailability = true
		opts.SyncPaymentAmount = payment != nil && payment.Status == bookingDomain.PaymentPending
	}

	if req.SpecialRequests != nil {
		bk.SetSpecialRequests(*req.SpecialRequests)
	}
	if req.AdditionalDrivers != nil {
		bk.SetAdditionalDrivers(*req.AdditionalDrivers)
	}
	if req.AdminNotes != nil {
		if !isStaff {
			return nil, domain.NewForbiddenError("only staff can set admin notes")
		}
		bk.SetAdminNotes(*req.AdminNotes)
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk, opts); err != nil {
		return nil, err
	}

	s.publishStatusEvent(ctx, bookingDomain.EventBookingUpdated, bk, "")

	if opts.SyncPaymentAmount {
		payment, err = s.findPaymentIfAny(ctx, bookingID)
		if err != nil {
			return nil, err
		}
	}
	result := toBookingDTO(bk, payment)
	return &result, nil
}

// ConfirmBooking transitions a pending booking to confirmed (admin). The
// vehicle's availability is re-verified under the row lock before the write.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, bookingDomain.EventBookingConfirmed, (*bookingDomain.Booking).Confirm,
		bookingDomain.UpdateOptions{RecheckAvailability: true})
}

// CheckInBooking marks the vehicle as picked up, moving the booking from
// confirmed to active (admin).
func (s *BookingService) CheckInBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, bookingDomain.EventBookingCheckedIn, (*bookingDomain.Booking).CheckIn,
		bookingDomain.UpdateOptions{})
}

// CompleteBooking marks the vehicle as returned, moving the booking from
// active to completed (admin).
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, bookingDomain.EventBookingCompleted, (*bookingDomain.Booking).Complete,
		bookingDomain.UpdateOptions{})
}

func (s *BookingService) transition(ctx context.Context, bookingID uuid.UUID, eventType string, apply func(*bookingDomain.Booking) error, opts bookingDomain.UpdateOptions) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := apply(bk); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk, opts); err != nil {
		return nil, err
	}

	s.publishStatusEvent(ctx, eventType, bk, "")

	payment, err := s.findPaymentIfAny(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk, payment)
	return &result, nil
}

// CancelBooking cancels a pending or confirmed booking. If the payment had
// already completed, a refund is issued and the payment marked refunded.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, isStaff bool, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isStaff && bk.UserID() != actorID {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk, bookingDomain.UpdateOptions{}); err != nil {
		return nil, err
	}

	payment, err := s.findPaymentIfAny(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if payment != nil && payment.Status == bookingDomain.PaymentCompleted {
		if err := s.payments.Refund(ctx, payment.PaymentIntentID, payment.Amount, reason); err != nil {
			return nil, fmt.Errorf("failed to refund payment: %w", err)
		}
		if err := s.repo.MarkPaymentRefunded(ctx, bookingID, reason); err != nil {
			return nil, err
		}
		payment.Status = bookingDomain.PaymentRefunded
		payment.RefundReason = reason
	}

	s.publishStatusEvent(ctx, bookingDomain.EventBookingCancelled, bk, reason)

	result := toBookingDTO(bk, payment)
	return &result, nil
}

// DeleteBooking permanently removes a booking and its payment record (admin).
// Only cancelled or completed bookings may be deleted.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !bk.Status().IsTerminal() {
		return domain.NewValidationError("cannot delete booking in current status")
	}
	return s.repo.Delete(ctx, bookingID)
}

// --- Reporting ---

// StatusMetricsDTO aggregates one status within a stats period.
type StatusMetricsDTO struct {
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// BookingStatsDTO is the aggregate booking report for a period.
type BookingStatsDTO struct {
	PeriodStart   time.Time                   `json:"period_start"`
	PeriodEnd     time.Time                   `json:"period_end"`
	TotalBookings int64                       `json:"total_bookings"`
	TotalRevenue  float64                     `json:"total_revenue"`
	ByStatus      map[string]StatusMetricsDTO `json:"by_status"`
}

// RevenueBucketDTO is one point in a revenue time series.
type RevenueBucketDTO struct {
	Period        string  `json:"period"`
	BookingsCount int64   `json:"bookings_count"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// ReminderDTO is a confirmed booking starting soon.
type ReminderDTO struct {
	BookingID    uuid.UUID `json:"booking_id"`
	BookingDate  time.Time `json:"booking_date"`
	ReturnDate   time.Time `json:"return_date"`
	RenterName   string    `json:"renter_name"`
	RenterEmail  string    `json:"renter_email"`
	RenterPhone  string    `json:"renter_phone,omitempty"`
	VehicleMake  string    `json:"vehicle_make"`
	VehicleModel string    `json:"vehicle_model"`
}

// GetBookingStats returns booking counts and revenue by status for a period
// (admin).
func (s *BookingService) GetBookingStats(ctx context.Context, from, to time.Time) (*BookingStatsDTO, error) {
	if !to.After(from) {
		return nil, domain.NewValidationError("period end must be after period start")
	}
	stats, err := s.repo.Stats(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]StatusMetricsDTO, len(stats.ByStatus))
	for status, m := range stats.ByStatus {
		byStatus[status] = StatusMetricsDTO{Count: m.Count, Revenue: m.Revenue}
	}
	return &BookingStatsDTO{
		PeriodStart:   stats.PeriodStart,
		PeriodEnd:     stats.PeriodEnd,
		TotalBookings: stats.TotalBookings,
		TotalRevenue:  stats.TotalRevenue,
		ByStatus:      byStatus,
	}, nil
}

// GetRevenueSeries returns revenue grouped by day, week, month or year
// (admin).
func (s *BookingService) GetRevenueSeries(ctx context.Context, from, to time.Time, granularity string) ([]RevenueBucketDTO, error) {
	if !to.After(from) {
		return nil, domain.NewValidationError("period end must be after period start")
	}
	buckets, err := s.repo.RevenueSeries(ctx, from, to, granularity)
	if err != nil {
		return nil, err
	}

	dtos := make([]RevenueBucketDTO, len(buckets))
	for i, b := range buckets {
		dtos[i] = RevenueBucketDTO{
			Period:        b.Period,
			BookingsCount: b.BookingsCount,
			TotalRevenue:  b.TotalRevenue,
		}
	}
	return dtos, nil
}

// GetUpcomingReminders returns confirmed bookings starting within the window
// (admin).
func (s *BookingService) GetUpcomingReminders(ctx context.Context, within time.Duration) ([]ReminderDTO, error) {
	if within <= 0 {
		return nil, domain.NewValidationError("reminder window must be positive")
	}
	reminders, err := s.repo.UpcomingReminders(ctx, time.Now().UTC(), within)
	if err != nil {
		return nil, err
	}

	dtos := make([]ReminderDTO, len(reminders))
	for i, r := range reminders {
		dtos[i] = ReminderDTO{
			BookingID:    r.BookingID,
			BookingDate:  r.BookingDate,
			ReturnDate:   r.ReturnDate,
			RenterName:   r.RenterName,
			RenterEmail:  r.RenterEmail,
			RenterPhone:  r.RenterPhone,
			VehicleMake:  r.VehicleMake,
			VehicleModel: r.VehicleModel,
		}
	}
	return dtos, nil
}

// --- Bulk operations ---

// BulkConfirm confirms each listed booking, collecting per-ID failures
// instead of aborting on the first error (admin).
func (s *BookingService) BulkConfirm(ctx context.Context, ids []uuid.UUID) (*BulkResult, error) {
	return s.bulk(ctx, ids, func(ctx context.Context, id uuid.UUID) error {
		_, err := s.ConfirmBooking(ctx, id)
		return err
	})
}

// BulkCancel cancels each listed booking with the shared reason (admin).
func (s *BookingService) BulkCancel(ctx context.Context, ids []uuid.UUID, actorID uuid.UUID, reason string) (*BulkResult, error) {
	return s.bulk(ctx, ids, func(ctx context.Context, id uuid.UUID) error {
		_, err := s.CancelBooking(ctx, id, actorID, true, reason)
		return err
	})
}

func (s *BookingService) bulk(ctx context.Context, ids []uuid.UUID, apply func(context.Context, uuid.UUID) error) (*BulkResult, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("at least one booking ID is required")
	}

	result := &BulkResult{Succeeded: []uuid.UUID{}, Failed: []BulkFailure{}}
	for _, id := range ids {
		if err := apply(ctx, id); err != nil {
			if !domain.IsBusinessError(err) {
				return nil, err
			}
			result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}

// SweepOverdue completes active bookings whose return date has passed and
// publishes a completed event for each.
func (s *BookingService) SweepOverdue(ctx context.Context) ([]uuid.UUID, error) {
	now := time.Now().UTC()
	ids, err := s.repo.CompleteOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		s.publishEvent(ctx, bookingDomain.EventBookingCompleted, bookingDomain.StatusChangedEvent{
			BookingID: id,
			Status:    bookingDomain.StatusCompleted.String(),
			Reason:    "return date passed",
		})
	}
	if len(ids) > 0 {
		s.logger.Info("completed overdue bookings", zap.Int("count", len(ids)))
	}
	return ids, nil
}

// HandlePaymentCompleted reacts to a payment.completed event: the payment is
// marked completed and the booking confirmed. A booking that already left
// pending keeps its status.
func (s *BookingService) HandlePaymentCompleted(ctx context.Context, evt bookingDomain.PaymentCompletedEvent) error {
	if err := s.repo.MarkPaymentCompleted(ctx, evt.BookingID); err != nil {
		return err
	}

	_, err := s.ConfirmBooking(ctx, evt.BookingID)
	if err != nil {
		if domain.IsValidation(err) {
			s.logger.Info("payment completed for booking past pending, status unchanged",
				zap.String("booking_id", evt.BookingID.String()),
			)
			return nil
		}
		return err
	}
	return nil
}

// --- Helpers ---

func (s *BookingService) findPaymentIfAny(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.PaymentRecord, error) {
	payment, err := s.repo.FindPayment(ctx, bookingID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}

func (s *BookingService) publishStatusEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking, reason string) {
	s.publishEvent(ctx, eventType, bookingDomain.StatusChangedEvent{
		BookingID: bk.ID(),
		UserID:    bk.UserID(),
		Status:    bk.Status().String(),
		Reason:    reason,
	})
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-rental", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, bookingDomain.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", bookingDomain.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func mapPage(result *domain.PaginatedResult[*bookingDomain.Booking]) *domain.PaginatedResult[BookingDTO] {
	dtos := make([]BookingDTO, len(result.Items))
	for i, bk := range result.Items {
		dtos[i] = toBookingDTO(bk, nil)
	}
	page := domain.NewPaginatedResult(dtos, result.Total, result.Page, result.Limit)
	return &page
}

func toBookingDTO(bk *bookingDomain.Booking, payment *bookingDomain.PaymentRecord) BookingDTO {
	dto := BookingDTO{
		ID:                 bk.ID(),
		UserID:             bk.UserID(),
		VehicleID:          bk.VehicleID(),
		LocationID:         bk.LocationID(),
		Status:             bk.Status().String(),
		BookingDate:        bk.BookingDate(),
		ReturnDate:         bk.ReturnDate(),
		TotalAmount:        bk.TotalAmount(),
		InsuranceOption:    bk.InsuranceOption(),
		SpecialRequests:    bk.SpecialRequests(),
		AdditionalDrivers:  bk.AdditionalDrivers(),
		AdminNotes:         bk.AdminNotes(),
		CancellationReason: bk.CancellationReason(),
		Version:            bk.Version(),
		CreatedAt:          bk.CreatedAt(),
		UpdatedAt:          bk.UpdatedAt(),
	}
	if payment != nil {
		dto.Payment = &PaymentDTO{
			ID:              payment.ID,
			Amount:          payment.Amount,
			Status:          string(payment.Status),
			PaymentIntentID: payment.PaymentIntentID,
			RefundReason:    payment.RefundReason,
		}
	}
	return dto
}
