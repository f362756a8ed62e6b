package booking

import (
	"context"

	"github.com/google/uuid"
)

// Renter is the subset of user data the booking domain needs.
type Renter struct {
	ID       uuid.UUID
	FullName string
	Email    string
	Phone    string
	IsActive bool
}

// Vehicle is the subset of fleet data the booking domain needs.
type Vehicle struct {
	ID        uuid.UUID
	Make      string
	Model     string
	DailyRate float64
}

// UserDirectory resolves renters by ID.
type UserDirectory interface {
	Find(ctx context.Context, id uuid.UUID) (*Renter, error)
}

// VehicleCatalog resolves vehicles by ID.
type VehicleCatalog interface {
	Find(ctx context.Context, id uuid.UUID) (*Vehicle, error)
}

// LocationDirectory checks that a pickup location exists. A missing location
// is reported as (false, nil), not as an error.
type LocationDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PaymentProcessor handles refunds against the payment provider.
type PaymentProcessor interface {
	Refund(ctx context.Context, paymentIntentID string, amount float64, reason string) error
}
