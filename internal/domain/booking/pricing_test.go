package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 10, 0, 0, 0, time.UTC)
}

func TestStandardPricing_ComputeTotal(t *testing.T) {
	strategy := NewStandardPricingStrategy()

	tests := []struct {
		name      string
		rate      float64
		start     time.Time
		end       time.Time
		insurance string
		want      float64
	}{
		{
			name:  "three days no insurance",
			rate:  50.00,
			start: day(1), end: day(4),
			want: 150.00,
		},
		{
			name:  "three days basic insurance adds 10 percent",
			rate:  50.00,
			start: day(1), end: day(4),
			insurance: InsuranceBasic,
			want:      165.00,
		},
		{
			name:  "three days premium insurance adds 20 percent",
			rate:  50.00,
			start: day(1), end: day(4),
			insurance: InsurancePremium,
			want:      180.00,
		},
		{
			name:  "partial day rounds up to a full day",
			rate:  40.00,
			start: day(1), end: day(2).Add(time.Hour),
			want: 80.00,
		},
		{
			name:  "fractional total rounds to two decimals",
			rate:  33.33,
			start: day(1), end: day(4),
			insurance: InsuranceBasic,
			want:      109.99,
		},
		{
			name:  "unrecognized insurance tier adds no surcharge",
			rate:  100.00,
			start: day(1), end: day(2),
			insurance: "gold",
			want:      100.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := strategy.ComputeTotal(PricingParams{
				DailyRate:       tt.rate,
				Start:           tt.start,
				End:             tt.end,
				InsuranceOption: tt.insurance,
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, total, 0.001)
		})
	}
}

func TestStandardPricing_RejectsInvalidInput(t *testing.T) {
	strategy := NewStandardPricingStrategy()

	_, err := strategy.ComputeTotal(PricingParams{
		DailyRate: -10, Start: day(1), End: day(2),
	})
	assert.Error(t, err, "negative rate must be rejected")

	_, err = strategy.ComputeTotal(PricingParams{
		DailyRate: 50, Start: day(2), End: day(1),
	})
	assert.Error(t, err, "inverted interval must be rejected")
}

func TestRentalDays(t *testing.T) {
	assert.Equal(t, 1, RentalDays(day(1), day(2)))
	assert.Equal(t, 3, RentalDays(day(1), day(4)))
	assert.Equal(t, 2, RentalDays(day(1), day(2).Add(time.Hour)), "25 hours charges two days")
}
