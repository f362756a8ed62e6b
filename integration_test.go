//go:build integration

package main_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveloop/service-rental/internal/application"
	bookingDomain "github.com/driveloop/service-rental/internal/domain/booking"
	"github.com/driveloop/service-rental/internal/repository"
	"github.com/driveloop/service-rental/pkg/domain"
)

// TestConcurrentCreates_OneWinner verifies that the row-lock serialization in
// the repository lets exactly one of many concurrent creates for the same
// vehicle and date range succeed.
func TestConcurrentCreates_OneWinner(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRentalStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	ids := seedFixtures(t, infra.DB)

	start := time.Now().UTC().Add(48 * time.Hour)
	req := application.CreateBookingRequest{
		VehicleID:   ids.VehicleID,
		LocationID:  ids.LocationID,
		BookingDate: start,
		ReturnDate:  start.Add(72 * time.Hour),
	}

	const attempts = 6
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stack.Service.CreateBooking(context.Background(), ids.UserID, req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case domain.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactly one create may win")
	assert.Equal(t, attempts-1, conflicts)

	var count int64
	require.NoError(t, infra.DB.Model(&repository.BookingModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestPaymentCompleted_ConfirmsBooking verifies that a payment.completed
// event on payment.events marks the payment completed, confirms the booking
// and emits booking.confirmed.
func TestPaymentCompleted_ConfirmsBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRentalStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()
	ids := seedFixtures(t, infra.DB)

	start := time.Now().UTC().Add(48 * time.Hour)
	created, err := stack.Service.CreateBooking(context.Background(), ids.UserID, application.CreateBookingRequest{
		VehicleID:   ids.VehicleID,
		LocationID:  ids.LocationID,
		BookingDate: start,
		ReturnDate:  start.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	require.NotNil(t, created.Payment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	evt := bookingDomain.PaymentCompletedEvent{
		BookingID:       created.ID,
		PaymentIntentID: created.Payment.PaymentIntentID,
		Amount:          created.TotalAmount,
	}
	publishTestEvent(t, infra.KafkaBrokers, bookingDomain.TopicPaymentEvents,
		"service-payment", bookingDomain.EventPaymentCompleted, evt)

	waitForBookingStatus(t, infra.DB, created.ID, "confirmed", 15*time.Second)

	var payment repository.PaymentModel
	require.NoError(t, infra.DB.Where("booking_id = ?", created.ID).First(&payment).Error)
	assert.Equal(t, "completed", payment.Status)

	ce := consumeOneEvent(t, infra.KafkaBrokers, bookingDomain.TopicBookingEvents,
		bookingDomain.EventBookingConfirmed, 15*time.Second)

	var confirmed bookingDomain.StatusChangedEvent
	require.NoError(t, ce.ParseData(&confirmed))
	assert.Equal(t, created.ID, confirmed.BookingID)
	assert.Equal(t, "confirmed", confirmed.Status)
}

// TestDeleteBooking_CascadesPayment verifies that the delete guard rejects
// live bookings and that deleting a cancelled booking removes its payment row
// in the same transaction.
func TestDeleteBooking_CascadesPayment(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRentalStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	ids := seedFixtures(t, infra.DB)

	start := time.Now().UTC().Add(48 * time.Hour)
	created, err := stack.Service.CreateBooking(context.Background(), ids.UserID, application.CreateBookingRequest{
		VehicleID:   ids.VehicleID,
		LocationID:  ids.LocationID,
		BookingDate: start,
		ReturnDate:  start.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	err = stack.Service.DeleteBooking(context.Background(), created.ID)
	assert.True(t, domain.IsValidation(err), "pending bookings cannot be deleted")

	_, err = stack.Service.CancelBooking(context.Background(), created.ID, ids.UserID, false, "changed plans")
	require.NoError(t, err)

	require.NoError(t, stack.Service.DeleteBooking(context.Background(), created.ID))

	var bookings, payments int64
	require.NoError(t, infra.DB.Model(&repository.BookingModel{}).Where("id = ?", created.ID).Count(&bookings).Error)
	require.NoError(t, infra.DB.Model(&repository.PaymentModel{}).Where("booking_id = ?", created.ID).Count(&payments).Error)
	assert.Zero(t, bookings)
	assert.Zero(t, payments)
}

// TestSearchBookings_FreeText verifies the joined free-text search against
// renter and vehicle columns.
func TestSearchBookings_FreeText(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRentalStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	ids := seedFixtures(t, infra.DB)

	start := time.Now().UTC().Add(48 * time.Hour)
	created, err := stack.Service.CreateBooking(context.Background(), ids.UserID, application.CreateBookingRequest{
		VehicleID:   ids.VehicleID,
		LocationID:  ids.LocationID,
		BookingDate: start,
		ReturnDate:  start.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	result, err := stack.Service.SearchBookings(context.Background(), bookingDomain.SearchFilter{Term: "corolla"}, 1, 20)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, created.ID, result.Items[0].ID)

	result, err = stack.Service.SearchBookings(context.Background(), bookingDomain.SearchFilter{Term: "integration tester"}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)

	result, err = stack.Service.SearchBookings(context.Background(), bookingDomain.SearchFilter{Term: "landcruiser"}, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

// TestUpdateBooking_RepriceAgainstDB verifies the reprice-and-sync path
// against a real database, including the optimistic version bump.
func TestUpdateBooking_RepriceAgainstDB(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupRentalStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	ids := seedFixtures(t, infra.DB)

	start := time.Now().UTC().Add(48 * time.Hour)
	created, err := stack.Service.CreateBooking(context.Background(), ids.UserID, application.CreateBookingRequest{
		VehicleID:   ids.VehicleID,
		LocationID:  ids.LocationID,
		BookingDate: start,
		ReturnDate:  start.Add(72 * time.Hour),
	})
	require.NoError(t, err)

	newStart := start.Add(240 * time.Hour)
	newEnd := newStart.Add(48 * time.Hour)
	updated, err := stack.Service.UpdateBooking(context.Background(), created.ID, ids.UserID, false, application.UpdateBookingRequest{
		BookingDate: &newStart,
		ReturnDate:  &newEnd,
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.00, updated.TotalAmount, 0.001)
	assert.Equal(t, created.Version+1, updated.Version)

	var payment repository.PaymentModel
	require.NoError(t, infra.DB.Where("booking_id = ?", created.ID).First(&payment).Error)
	assert.InDelta(t, 100.00, payment.Amount, 0.001, "pending payment follows the new total")
}
