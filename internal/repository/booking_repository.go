package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/driveloop/service-rental/internal/domain/booking"
	"github.com/driveloop/service-rental/pkg/domain"
)

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// blockingStatuses lists the statuses that hold a vehicle for their dates.
var blockingStatuses = []string{
	bookingDomain.StatusPending.String(),
	bookingDomain.StatusConfirmed.String(),
	bookingDomain.StatusActive.String(),
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindPayment retrieves the payment record attached to a booking.
func (r *GormBookingRepository) FindPayment(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.PaymentRecord, error) {
	var model PaymentModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Payment", bookingID.String())
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return toPaymentRecord(&model), nil
}

// FindConflicts returns blocking bookings whose closed interval overlaps
// [start, end] for the vehicle. Advisory only: callers wanting a race-free
// answer must go through Create or Update, which re-run this check under the
// vehicle row lock.
func (r *GormBookingRepository) FindConflicts(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]bookingDomain.ConflictSummary, error) {
	return findConflicts(r.db.WithContext(ctx), vehicleID, start, end, excludeID)
}

func findConflicts(tx *gorm.DB, vehicleID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]bookingDomain.ConflictSummary, error) {
	type conflictRow struct {
		ID          uuid.UUID
		BookingDate time.Time
		ReturnDate  time.Time
		FullName    string
	}

	q := tx.Model(&BookingModel{}).
		Select("bookings.id, bookings.booking_date, bookings.return_date, users.full_name").
		Joins("LEFT JOIN users ON users.id = bookings.user_id").
		Where("bookings.vehicle_id = ?", vehicleID).
		Where("bookings.status IN ?", blockingStatuses).
		Where("bookings.booking_date <= ? AND bookings.return_date >= ?", end, start)
	if excludeID != nil {
		q = q.Where("bookings.id <> ?", *excludeID)
	}

	var rows []conflictRow
	if err := q.Order("bookings.booking_date ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find conflicting bookings: %w", err)
	}

	conflicts := make([]bookingDomain.ConflictSummary, len(rows))
	for i, row := range rows {
		conflicts[i] = bookingDomain.ConflictSummary{
			BookingID:   row.ID,
			BookingDate: row.BookingDate,
			ReturnDate:  row.ReturnDate,
			RenterName:  row.FullName,
		}
	}
	return conflicts, nil
}

// lockVehicle takes a FOR UPDATE row lock on the vehicle, serializing all
// concurrent availability checks and writes for that vehicle within the
// surrounding transaction.
func lockVehicle(tx *gorm.DB, vehicleID uuid.UUID) error {
	var vehicle VehicleModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", vehicleID).
		First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFoundError("Vehicle", vehicleID.String())
		}
		return fmt.Errorf("failed to lock vehicle row: %w", err)
	}
	return nil
}

// Create persists a new booking together with its pending payment record.
// The availability check runs inside the transaction while holding the
// vehicle row lock, so two concurrent creates for the same vehicle cannot
// both pass it.
func (r *GormBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) (*bookingDomain.PaymentRecord, error) {
	var payment PaymentModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockVehicle(tx, bk.VehicleID()); err != nil {
			return err
		}

		conflicts, err := findConflicts(tx, bk.VehicleID(), bk.BookingDate(), bk.ReturnDate(), nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.NewConflictError("vehicle is not available for the selected dates")
		}

		if err := tx.Create(toBookingModel(bk)).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}

		now := time.Now().UTC()
		payment = PaymentModel{
			ID:              uuid.New(),
			BookingID:       bk.ID(),
			Amount:          bk.TotalAmount(),
			Status:          string(bookingDomain.PaymentPending),
			PaymentIntentID: newPaymentIntentID(),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPaymentRecord(&payment), nil
}

// Update persists changes to an existing booking with optimistic locking.
// With RecheckAvailability set it re-runs conflict detection under the
// vehicle row lock before writing; with SyncPaymentAmount set it writes the
// booking total onto the pending payment row in the same transaction.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking, opts bookingDomain.UpdateOptions) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.RecheckAvailability {
			if err := lockVehicle(tx, bk.VehicleID()); err != nil {
				return err
			}
			id := bk.ID()
			conflicts, err := findConflicts(tx, bk.VehicleID(), bk.BookingDate(), bk.ReturnDate(), &id)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return domain.NewConflictError("vehicle is not available for the selected dates")
			}
		}

		model := toBookingModel(bk)
		expectedVersion := bk.Version() - 1
		result := tx.Model(&BookingModel{}).
			Where("id = ? AND version = ?", model.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":              model.Status,
				"booking_date":        model.BookingDate,
				"return_date":         model.ReturnDate,
				"total_amount":        model.TotalAmount,
				"insurance_option":    model.InsuranceOption,
				"special_requests":    model.SpecialRequests,
				"additional_drivers":  model.AdditionalDrivers,
				"admin_notes":         model.AdminNotes,
				"cancellation_reason": model.CancellationReason,
				"version":             model.Version,
				"updated_at":          model.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewConflictError("booking was modified by another transaction")
		}

		if opts.SyncPaymentAmount {
			err := tx.Model(&PaymentModel{}).
				Where("booking_id = ? AND status = ?", bk.ID(), string(bookingDomain.PaymentPending)).
				Updates(map[string]interface{}{
					"amount":     bk.TotalAmount(),
					"updated_at": time.Now().UTC(),
				}).Error
			if err != nil {
				return fmt.Errorf("failed to sync payment amount: %w", err)
			}
		}
		return nil
	})
}

// Delete removes a booking and its payment record in one transaction.
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&PaymentModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&BookingModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Booking", id.String())
		}
		return nil
	})
}

// MarkPaymentCompleted moves a booking's payment to completed.
func (r *GormBookingRepository) MarkPaymentCompleted(ctx context.Context, bookingID uuid.UUID) error {
	return r.setPaymentStatus(ctx, bookingID, bookingDomain.PaymentCompleted, "")
}

// MarkPaymentRefunded moves a booking's payment to refunded with a reason.
func (r *GormBookingRepository) MarkPaymentRefunded(ctx context.Context, bookingID uuid.UUID, reason string) error {
	return r.setPaymentStatus(ctx, bookingID, bookingDomain.PaymentRefunded, reason)
}

func (r *GormBookingRepository) setPaymentStatus(ctx context.Context, bookingID uuid.UUID, status bookingDomain.PaymentStatus, refundReason string) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	if refundReason != "" {
		updates["refund_reason"] = refundReason
	}
	result := r.db.WithContext(ctx).Model(&PaymentModel{}).
		Where("booking_id = ?", bookingID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Payment", bookingID.String())
	}
	return nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) (*domain.PaginatedResult[*bookingDomain.Booking], error) {
	return r.paginate(ctx, r.db.WithContext(ctx).Model(&BookingModel{}), page, limit)
}

// FindByUserID retrieves a renter's bookings with pagination.
func (r *GormBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[*bookingDomain.Booking], error) {
	q := r.db.WithContext(ctx).Model(&BookingModel{}).Where("user_id = ?", userID)
	return r.paginate(ctx, q, page, limit)
}

// Search retrieves bookings matching the filter with pagination (admin).
// DateFrom/DateTo filter on interval overlap, not containment.
func (r *GormBookingRepository) Search(ctx context.Context, filter bookingDomain.SearchFilter, page, limit int) (*domain.PaginatedResult[*bookingDomain.Booking], error) {
	q := r.db.WithContext(ctx).Model(&BookingModel{})
	if filter.Term != "" {
		term := "%" + filter.Term + "%"
		q = q.
			Joins("LEFT JOIN users ON users.id = bookings.user_id").
			Joins("LEFT JOIN vehicles ON vehicles.id = bookings.vehicle_id").
			Where(
				"users.full_name ILIKE ? OR users.email ILIKE ? OR vehicles.make ILIKE ? OR vehicles.model ILIKE ?",
				term, term, term, term,
			)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.VehicleID != uuid.Nil {
		q = q.Where("vehicle_id = ?", filter.VehicleID)
	}
	if !filter.DateFrom.IsZero() {
		q = q.Where("return_date >= ?", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		q = q.Where("booking_date <= ?", filter.DateTo)
	}
	return r.paginate(ctx, q, page, limit)
}

func (r *GormBookingRepository) paginate(ctx context.Context, q *gorm.DB, page, limit int) (*domain.PaginatedResult[*bookingDomain.Booking], error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := q.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}

	result := domain.NewPaginatedResult(bookings, total, page, limit)
	return &result, nil
}

// Stats aggregates booking counts and revenue by status for a period.
// A booking belongs to the period when its creation date falls inside it.
func (r *GormBookingRepository) Stats(ctx context.Context, from, to time.Time) (*bookingDomain.Stats, error) {
	type statusRow struct {
		Status  string
		Count   int64
		Revenue float64
	}
	var rows []statusRow
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count, COALESCE(SUM(total_amount), 0) as revenue").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking stats: %w", err)
	}

	stats := &bookingDomain.Stats{
		PeriodStart: from,
		PeriodEnd:   to,
		ByStatus:    make(map[string]bookingDomain.StatusMetrics),
	}
	for _, row := range rows {
		stats.TotalBookings += row.Count
		stats.ByStatus[row.Status] = bookingDomain.StatusMetrics{
			Count:   row.Count,
			Revenue: row.Revenue,
		}
		// cancelled bookings never contribute revenue
		if row.Status != bookingDomain.StatusCancelled.String() {
			stats.TotalRevenue += row.Revenue
		}
	}
	return stats, nil
}

// periodFormats maps a granularity to its PostgreSQL TO_CHAR format. Weeks
// use ISO week numbering so buckets never straddle a year boundary.
var periodFormats = map[string]string{
	"day":   "YYYY-MM-DD",
	"week":  "IYYY-IW",
	"month": "YYYY-MM",
	"year":  "YYYY",
}

// RevenueSeries returns revenue grouped into calendar buckets of the given
// granularity, ordered chronologically. Cancelled bookings are excluded.
func (r *GormBookingRepository) RevenueSeries(ctx context.Context, from, to time.Time, granularity string) ([]bookingDomain.RevenueBucket, error) {
	format, ok := periodFormats[granularity]
	if !ok {
		return nil, domain.NewValidationError("invalid granularity: " + granularity)
	}

	type bucketRow struct {
		Period  string
		Count   int64
		Revenue float64
	}
	var rows []bucketRow
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("TO_CHAR(created_at, ?) as period, count(*) as count, COALESCE(SUM(total_amount), 0) as revenue", format).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Where("status <> ?", bookingDomain.StatusCancelled.String()).
		Group("period").
		Order("period ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue series: %w", err)
	}

	buckets := make([]bookingDomain.RevenueBucket, len(rows))
	for i, row := range rows {
		buckets[i] = bookingDomain.RevenueBucket{
			Period:        row.Period,
			BookingsCount: row.Count,
			TotalRevenue:  row.Revenue,
		}
	}
	return buckets, nil
}

// UpcomingReminders returns confirmed bookings starting within the window,
// joined with renter contact data and vehicle details.
func (r *GormBookingRepository) UpcomingReminders(ctx context.Context, now time.Time, within time.Duration) ([]bookingDomain.Reminder, error) {
	type reminderRow struct {
		ID           uuid.UUID
		BookingDate  time.Time
		ReturnDate   time.Time
		FullName     string
		Email        string
		Phone        string
		VehicleMake  string
		VehicleModel string
	}
	var rows []reminderRow
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select(`bookings.id, bookings.booking_date, bookings.return_date,
			users.full_name, users.email, users.phone,
			vehicles.make as vehicle_make, vehicles.model as vehicle_model`).
		Joins("LEFT JOIN users ON users.id = bookings.user_id").
		Joins("LEFT JOIN vehicles ON vehicles.id = bookings.vehicle_id").
		Where("bookings.status = ?", bookingDomain.StatusConfirmed.String()).
		Where("bookings.booking_date >= ? AND bookings.booking_date <= ?", now, now.Add(within)).
		Order("bookings.booking_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find upcoming bookings: %w", err)
	}

	reminders := make([]bookingDomain.Reminder, len(rows))
	for i, row := range rows {
		reminders[i] = bookingDomain.Reminder{
			BookingID:    row.ID,
			BookingDate:  row.BookingDate,
			ReturnDate:   row.ReturnDate,
			RenterName:   row.FullName,
			RenterEmail:  row.Email,
			RenterPhone:  row.Phone,
			VehicleMake:  row.VehicleMake,
			VehicleModel: row.VehicleModel,
		}
	}
	return reminders, nil
}

// CompleteOverdue transitions active bookings past their return date to
// completed and returns the affected IDs.
func (r *GormBookingRepository) CompleteOverdue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&BookingModel{}).
			Where("status = ? AND return_date < ?", bookingDomain.StatusActive.String(), now).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Pluck("id", &ids).Error
		if err != nil {
			return fmt.Errorf("failed to find overdue bookings: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		err = tx.Model(&BookingModel{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":     bookingDomain.StatusCompleted.String(),
				"version":    gorm.Expr("version + 1"),
				"updated_at": now,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to complete overdue bookings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// newPaymentIntentID generates a provider-style payment intent identifier.
func newPaymentIntentID() string {
	buf := make([]byte, 12)
	_, _ = rand.Read(buf)
	return "pi_" + hex.EncodeToString(buf)
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:                 bk.ID(),
		UserID:             bk.UserID(),
		VehicleID:          bk.VehicleID(),
		LocationID:         bk.LocationID(),
		Status:             string(bk.Status()),
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
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.Reconstruct(
		m.ID,
		m.UserID,
		m.VehicleID,
		m.LocationID,
		status,
		m.BookingDate,
		m.ReturnDate,
		m.TotalAmount,
		m.InsuranceOption,
		m.SpecialRequests,
		m.AdditionalDrivers,
		m.AdminNotes,
		m.CancellationReason,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toPaymentRecord(m *PaymentModel) *bookingDomain.PaymentRecord {
	return &bookingDomain.PaymentRecord{
		ID:              m.ID,
		BookingID:       m.BookingID,
		Amount:          m.Amount,
		Status:          bookingDomain.PaymentStatus(m.Status),
		PaymentIntentID: m.PaymentIntentID,
		RefundReason:    m.RefundReason,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
