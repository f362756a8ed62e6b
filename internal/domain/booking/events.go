package booking

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics this service produces to and consumes from.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// CloudEvent types emitted and consumed by the booking service.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCheckedIn = "booking.checked_in"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
	EventBookingUpdated   = "booking.updated"
	EventPaymentCompleted = "payment.completed"
)

// CreatedEvent is the payload for booking.created.
type CreatedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	UserID          uuid.UUID `json:"user_id"`
	VehicleID       uuid.UUID `json:"vehicle_id"`
	BookingDate     time.Time `json:"booking_date"`
	ReturnDate      time.Time `json:"return_date"`
	TotalAmount     float64   `json:"total_amount"`
	PaymentIntentID string    `json:"payment_intent_id"`
}

// StatusChangedEvent is the payload for confirmed, checked_in, cancelled,
// completed and updated events.
type StatusChangedEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	UserID    uuid.UUID `json:"user_id"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
}

// PaymentCompletedEvent is the inbound payload from the payment service.
type PaymentCompletedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	Amount          float64   `json:"amount"`
}
