package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/driveloop/service-rental/pkg/domain"
)

// Booking is the aggregate root for the rental booking domain. A booking
// reserves one vehicle for one renter over a closed date interval
// [bookingDate, returnDate] and owns at most one payment record.
type Booking struct {
	id         uuid.UUID
	userID     uuid.UUID
	vehicleID  uuid.UUID
	locationID uuid.UUID

	status      Status
	bookingDate time.Time
	returnDate  time.Time
	totalAmount float64

	insuranceOption    string
	specialRequests    string
	additionalDrivers  string
	adminNotes         string
	cancellationReason string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// New creates a new Booking in pending status.
func New(
	userID, vehicleID, locationID uuid.UUID,
	bookingDate, returnDate time.Time,
	totalAmount float64,
	insuranceOption, specialRequests, additionalDrivers string,
) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if vehicleID == uuid.Nil {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if locationID == uuid.Nil {
		return nil, domain.NewValidationError("location ID is required")
	}
	if !returnDate.After(bookingDate) {
		return nil, domain.NewValidationError("return date must be after booking date")
	}
	if bookingDate.Before(time.Now().UTC()) {
		return nil, domain.NewValidationError("booking date cannot be in the past")
	}
	if totalAmount < 0 {
		return nil, domain.NewValidationError("total amount cannot be negative")
	}

	now := time.Now().UTC()
	return &Booking{
		id:                uuid.New(),
		userID:            userID,
		vehicleID:         vehicleID,
		locationID:        locationID,
		status:            StatusPending,
		bookingDate:       bookingDate,
		returnDate:        returnDate,
		totalAmount:       totalAmount,
		insuranceOption:   insuranceOption,
		specialRequests:   specialRequests,
		additionalDrivers: additionalDrivers,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, userID, vehicleID, locationID uuid.UUID,
	status Status,
	bookingDate, returnDate time.Time,
	totalAmount float64,
	insuranceOption, specialRequests, additionalDrivers, adminNotes, cancellationReason string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                 id,
		userID:             userID,
		vehicleID:          vehicleID,
		locationID:         locationID,
		status:             status,
		bookingDate:        bookingDate,
		returnDate:         returnDate,
		totalAmount:        totalAmount,
		insuranceOption:    insuranceOption,
		specialRequests:    specialRequests,
		additionalDrivers:  additionalDrivers,
		adminNotes:         adminNotes,
		cancellationReason: cancellationReason,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// UserID returns the renter's user ID.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// VehicleID returns the reserved vehicle's ID.
func (b *Booking) VehicleID() uuid.UUID { return b.vehicleID }

// LocationID returns the pickup location's ID.
func (b *Booking) LocationID() uuid.UUID { return b.locationID }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// BookingDate returns the rental start (inclusive).
func (b *Booking) BookingDate() time.Time { return b.bookingDate }

// ReturnDate returns the rental end (inclusive).
func (b *Booking) ReturnDate() time.Time { return b.returnDate }

// TotalAmount returns the total rental price.
func (b *Booking) TotalAmount() float64 { return b.totalAmount }

// InsuranceOption returns the selected insurance tier, or "" for none.
func (b *Booking) InsuranceOption() string { return b.insuranceOption }

// SpecialRequests returns the renter's free-text requests.
func (b *Booking) SpecialRequests() string { return b.specialRequests }

// AdditionalDrivers returns additional-driver information.
func (b *Booking) AdditionalDrivers() string { return b.additionalDrivers }

// AdminNotes returns staff-only notes on the booking.
func (b *Booking) AdminNotes() string { return b.adminNotes }

// CancellationReason returns the recorded cancellation reason, if any.
func (b *Booking) CancellationReason() string { return b.cancellationReason }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// IsModifiable returns true while the booking's fields and dates may change.
func (b *Booking) IsModifiable() bool {
	return b.status == StatusPending || b.status == StatusConfirmed
}

// Confirm transitions the booking from pending to confirmed.
func (b *Booking) Confirm() error {
	if b.status != StatusPending {
		return domain.NewValidationError("only pending bookings can be confirmed")
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// CheckIn transitions the booking from confirmed to active at vehicle pickup.
func (b *Booking) CheckIn() error {
	if !b.status.CanTransitionTo(StatusActive) {
		return domain.NewValidationError("only confirmed bookings can be checked in")
	}
	b.status = StatusActive
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the booking from active to completed at vehicle return.
func (b *Booking) Complete() error {
	if b.status != StatusActive {
		return domain.NewValidationError("only active bookings can be completed")
	}
	b.status = StatusCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled, recording the reason.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewValidationError("cannot cancel booking in current status")
	}
	b.status = StatusCancelled
	b.cancellationReason = reason
	b.updatedAt = time.Now().UTC()
	return nil
}

// Reschedule changes the rental interval and the repriced total. Only
// modifiable bookings may be rescheduled; the caller is responsible for the
// availability re-check.
func (b *Booking) Reschedule(bookingDate, returnDate time.Time, totalAmount float64) error {
	if !b.IsModifiable() {
		return domain.NewValidationError("cannot modify booking in current status")
	}
	if !returnDate.After(bookingDate) {
		return domain.NewValidationError("return date must be after booking date")
	}
	b.bookingDate = bookingDate
	b.returnDate = returnDate
	b.totalAmount = totalAmount
	b.updatedAt = time.Now().UTC()
	return nil
}

// SetInsuranceOption updates the insurance tier. The caller must reprice.
func (b *Booking) SetInsuranceOption(v string) {
	b.insuranceOption = v
	b.updatedAt = time.Now().UTC()
}

// SetSpecialRequests updates the renter's free-text requests.
func (b *Booking) SetSpecialRequests(v string) {
	b.specialRequests = v
	b.updatedAt = time.Now().UTC()
}

// SetAdditionalDrivers updates additional-driver information.
func (b *Booking) SetAdditionalDrivers(v string) {
	b.additionalDrivers = v
	b.updatedAt = time.Now().UTC()
}

// SetAdminNotes updates staff notes.
func (b *Booking) SetAdminNotes(v string) {
	b.adminNotes = v
	b.updatedAt = time.Now().UTC()
}

// Overlaps reports whether this booking's interval conflicts with
// [start, end] under the closed-interval rule.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return !b.bookingDate.After(end) && !b.returnDate.Before(start)
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
