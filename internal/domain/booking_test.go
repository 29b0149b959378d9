package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPendingPayment, StatusConfirmed, true},
		{StatusPendingPayment, StatusCancelled, true},
		{StatusPendingPayment, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPendingPayment, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.from}
		assert.Equal(t, tt.want, b.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestBooking_OccupiesAt(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(10 * time.Minute)
	earlier := now.Add(-time.Minute)

	assert.True(t, (&Booking{Status: StatusConfirmed}).OccupiesAt(now))
	assert.True(t, (&Booking{Status: StatusCompleted}).OccupiesAt(now))
	assert.False(t, (&Booking{Status: StatusCancelled}).OccupiesAt(now))
	assert.True(t, (&Booking{Status: StatusPendingPayment, PaymentExpiresAt: &later}).OccupiesAt(now))
	assert.False(t, (&Booking{Status: StatusPendingPayment, PaymentExpiresAt: &earlier}).OccupiesAt(now))
	assert.False(t, (&Booking{Status: StatusPendingPayment, PaymentExpiresAt: &now}).OccupiesAt(now), "expiry instant is exclusive")
	assert.True(t, (&Booking{Status: StatusPendingPayment}).OccupiesAt(now), "no deadline means still holding")
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus("pending_payment"))
	assert.False(t, IsValidStatus("no_show"))
}
