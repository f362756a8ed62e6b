package booking

import (
	"math"
	"time"

	"github.com/driveloop/service-rental/pkg/domain"
)

// Insurance tiers. An empty option means the renter declined coverage.
const (
	InsuranceBasic   = "basic"
	InsurancePremium = "premium"
)

// PricingParams carries the inputs for a rental quote.
type PricingParams struct {
	DailyRate       float64
	Start           time.Time
	End             time.Time
	InsuranceOption string
}

// PricingStrategy computes the total price for a rental.
type PricingStrategy interface {
	ComputeTotal(params PricingParams) (float64, error)
}

// StandardPricingStrategy charges the daily rate per started day, with an
// insurance surcharge of 10% (basic) or 20% (premium).
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates the default pricing strategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// ComputeTotal returns the rental total rounded to two decimal places.
func (s *StandardPricingStrategy) ComputeTotal(params PricingParams) (float64, error) {
	if params.DailyRate < 0 {
		return 0, domain.NewValidationError("daily rate cannot be negative")
	}
	days := RentalDays(params.Start, params.End)
	if days <= 0 {
		return 0, domain.NewValidationError("return date must be after booking date")
	}

	total := params.DailyRate * float64(days)
	switch params.InsuranceOption {
	case InsuranceBasic:
		total *= 1.10
	case InsurancePremium:
		total *= 1.20
	default:
		// absent or unrecognized tier adds no surcharge
	}

	return roundCurrency(total), nil
}

// RentalDays returns the number of charged days for the interval, counting
// any started 24-hour period as a full day.
func RentalDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// roundCurrency rounds half-up to two decimal places.
func roundCurrency(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
