package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveloop/service-rental/pkg/domain"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	start := time.Now().UTC().Add(48 * time.Hour)
	bk, err := New(
		uuid.New(), uuid.New(), uuid.New(),
		start, start.Add(72*time.Hour),
		150.00,
		InsuranceBasic, "child seat", "",
	)
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	bk := newTestBooking(t)

	assert.NotEqual(t, uuid.Nil, bk.ID())
	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, int64(1), bk.Version())
	assert.Equal(t, 150.00, bk.TotalAmount())
	assert.True(t, bk.IsModifiable())
}

func TestNewBooking_Validation(t *testing.T) {
	start := time.Now().UTC().Add(48 * time.Hour)
	end := start.Add(72 * time.Hour)

	_, err := New(uuid.Nil, uuid.New(), uuid.New(), start, end, 100, "", "", "")
	assert.True(t, domain.IsValidation(err), "nil user ID")

	_, err = New(uuid.New(), uuid.Nil, uuid.New(), start, end, 100, "", "", "")
	assert.True(t, domain.IsValidation(err), "nil vehicle ID")

	_, err = New(uuid.New(), uuid.New(), uuid.Nil, start, end, 100, "", "", "")
	assert.True(t, domain.IsValidation(err), "nil location ID")

	_, err = New(uuid.New(), uuid.New(), uuid.New(), end, start, 100, "", "", "")
	assert.True(t, domain.IsValidation(err), "return before start")

	_, err = New(uuid.New(), uuid.New(), uuid.New(), start, start, 100, "", "", "")
	assert.True(t, domain.IsValidation(err), "zero-length interval")

	past := time.Now().UTC().Add(-24 * time.Hour)
	_, err = New(uuid.New(), uuid.New(), uuid.New(), past, end, 100, "", "", "")
	assert.True(t, domain.IsValidation(err), "start in the past")

	_, err = New(uuid.New(), uuid.New(), uuid.New(), start, end, -1, "", "", "")
	assert.True(t, domain.IsValidation(err), "negative total")
}

func TestBookingLifecycle(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Confirm())
	assert.Equal(t, StatusConfirmed, bk.Status())

	require.NoError(t, bk.CheckIn())
	assert.Equal(t, StatusActive, bk.Status())
	assert.False(t, bk.IsModifiable())

	require.NoError(t, bk.Complete())
	assert.Equal(t, StatusCompleted, bk.Status())
}

func TestBookingLifecycle_Guards(t *testing.T) {
	bk := newTestBooking(t)

	assert.Error(t, bk.CheckIn(), "cannot check in a pending booking")
	assert.Error(t, bk.Complete(), "cannot complete a pending booking")

	require.NoError(t, bk.Confirm())
	assert.Error(t, bk.Confirm(), "cannot confirm twice")

	require.NoError(t, bk.CheckIn())
	assert.Error(t, bk.Cancel("too late"), "cannot cancel an active rental")
	assert.Equal(t, StatusActive, bk.Status(), "failed cancel must not change status")

	require.NoError(t, bk.Complete())
	assert.Error(t, bk.Complete(), "cannot complete twice")
	assert.Error(t, bk.Cancel("no"), "cannot cancel a completed booking")
}

func TestBookingCancel(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Cancel("change of plans"))
	assert.Equal(t, StatusCancelled, bk.Status())
	assert.Equal(t, "change of plans", bk.CancellationReason())

	confirmed := newTestBooking(t)
	require.NoError(t, confirmed.Confirm())
	assert.NoError(t, confirmed.Cancel("weather"), "confirmed bookings can be cancelled")
}

func TestBookingReschedule(t *testing.T) {
	bk := newTestBooking(t)
	newStart := time.Now().UTC().Add(96 * time.Hour)
	newEnd := newStart.Add(48 * time.Hour)

	require.NoError(t, bk.Reschedule(newStart, newEnd, 220.00))
	assert.Equal(t, newStart, bk.BookingDate())
	assert.Equal(t, newEnd, bk.ReturnDate())
	assert.Equal(t, 220.00, bk.TotalAmount())

	assert.Error(t, bk.Reschedule(newEnd, newStart, 100), "inverted dates rejected")

	require.NoError(t, bk.Confirm())
	require.NoError(t, bk.CheckIn())
	assert.Error(t, bk.Reschedule(newStart, newEnd, 220.00), "active bookings cannot move")
}

func TestBookingOverlaps(t *testing.T) {
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	bk := Reconstruct(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		StatusConfirmed, start, end, 100, "", "", "", "", "",
		1, start, start,
	)

	// Closed interval: sharing a boundary day is a conflict.
	assert.True(t, bk.Overlaps(end, end.Add(48*time.Hour)))
	assert.True(t, bk.Overlaps(start.Add(-48*time.Hour), start))
	assert.True(t, bk.Overlaps(start.Add(24*time.Hour), end.Add(-24*time.Hour)))
	assert.True(t, bk.Overlaps(start.Add(-24*time.Hour), end.Add(24*time.Hour)))

	assert.False(t, bk.Overlaps(end.Add(time.Second), end.Add(48*time.Hour)))
	assert.False(t, bk.Overlaps(start.Add(-48*time.Hour), start.Add(-time.Second)))
}

func TestIncrementVersion(t *testing.T) {
	bk := newTestBooking(t)
	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}
