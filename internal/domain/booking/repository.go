package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/driveloop/service-rental/pkg/domain"
)

// PaymentStatus is the lifecycle state of a booking's payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PaymentRecord is the payment attached to a booking. Every booking carries
// exactly one, created atomically with the booking itself.
type PaymentRecord struct {
	ID              uuid.UUID
	BookingID       uuid.UUID
	Amount          float64
	Status          PaymentStatus
	PaymentIntentID string
	RefundReason    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ConflictSummary describes one booking that blocks a requested date range.
type ConflictSummary struct {
	BookingID   uuid.UUID
	BookingDate time.Time
	ReturnDate  time.Time
	RenterName  string
}

// SearchFilter narrows admin booking searches. Zero values mean "no filter".
// Term matches case-insensitively against the renter's name and email and the
// vehicle's make and model.
type SearchFilter struct {
	Term      string
	Status    Status
	UserID    uuid.UUID
	VehicleID uuid.UUID
	DateFrom  time.Time
	DateTo    time.Time
}

// StatusMetrics aggregates bookings of one status within a stats period.
type StatusMetrics struct {
	Count   int64
	Revenue float64
}

// Stats is the aggregate booking report for a period.
type Stats struct {
	PeriodStart   time.Time
	PeriodEnd     time.Time
	TotalBookings int64
	TotalRevenue  float64
	ByStatus      map[string]StatusMetrics
}

// RevenueBucket is one point in a revenue time series. Period is formatted
// per the requested granularity (day, week, month, year).
type RevenueBucket struct {
	Period        string
	BookingsCount int64
	TotalRevenue  float64
}

// Reminder is a confirmed booking starting soon, joined with contact data.
type Reminder struct {
	BookingID    uuid.UUID
	BookingDate  time.Time
	ReturnDate   time.Time
	RenterName   string
	RenterEmail  string
	RenterPhone  string
	VehicleMake  string
	VehicleModel string
}

// UpdateOptions controls the transactional behavior of Repository.Update.
type UpdateOptions struct {
	// RecheckAvailability re-runs conflict detection under the vehicle row
	// lock before persisting. Required whenever dates changed.
	RecheckAvailability bool
	// SyncPaymentAmount writes the booking's total onto its pending payment
	// record in the same transaction.
	SyncPaymentAmount bool
}

// Repository persists bookings and their payment records.
//
// Create and Update are transactional: they take a row lock on the vehicle,
// re-run conflict detection while holding it, and write booking and payment
// together. Update also enforces optimistic locking on the entity version and
// returns a ConflictError when the version is stale.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindPayment(ctx context.Context, bookingID uuid.UUID) (*PaymentRecord, error)

	// FindConflicts returns blocking bookings overlapping [start, end] for
	// the vehicle, excluding excludeID when non-nil. Advisory only; the
	// authoritative check happens inside Create/Update.
	FindConflicts(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]ConflictSummary, error)

	Create(ctx context.Context, b *Booking) (*PaymentRecord, error)
	Update(ctx context.Context, b *Booking, opts UpdateOptions) error
	Delete(ctx context.Context, id uuid.UUID) error

	MarkPaymentCompleted(ctx context.Context, bookingID uuid.UUID) error
	MarkPaymentRefunded(ctx context.Context, bookingID uuid.UUID, reason string) error

	ListAll(ctx context.Context, page, limit int) (*domain.PaginatedResult[*Booking], error)
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[*Booking], error)
	Search(ctx context.Context, filter SearchFilter, page, limit int) (*domain.PaginatedResult[*Booking], error)

	Stats(ctx context.Context, from, to time.Time) (*Stats, error)
	RevenueSeries(ctx context.Context, from, to time.Time, granularity string) ([]RevenueBucket, error)
	UpcomingReminders(ctx context.Context, now time.Time, within time.Duration) ([]Reminder, error)

	// CompleteOverdue transitions active bookings whose return date has
	// passed to completed and returns the affected IDs.
	CompleteOverdue(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}
