package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:          42,
		CustomerID:  100,
		BusinessID:  7,
		StaffID:     ptr.Ptr(int64(5)),
		ServiceID:   ptr.Ptr(int64(11)),
		BookingDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		EndTime:     "11:00",
		Status:      domain.StatusPendingPayment,
		Price:       decimal.RequireFromString("1500"),
		Currency:    "RUB",
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	occurred := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)
	event := NewBookingEvent(TypeBookingCreated, testBooking(), occurred)

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "business:7", string(msg.Key))
	assert.Equal(t, occurred, msg.Time)
	assert.Equal(t, "event_type", msg.Headers[1].Key)
	assert.Equal(t, TypeBookingCreated, string(msg.Headers[1].Value))

	var decoded BookingEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, int64(42), decoded.BookingID)
	assert.Equal(t, "2025-01-15", decoded.Date)
	assert.Equal(t, "10:00", decoded.StartTime)
	assert.Equal(t, "1500.00", decoded.Price)
	assert.Equal(t, domain.StatusPendingPayment, decoded.Status)
	assert.NotEmpty(t, decoded.EventID)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), NewBookingEvent(TypeBookingCancelled, testBooking(), time.Now()))
	assert.ErrorIs(t, err, ErrPublishEvent)
}

func TestKafkaPublisher_NothingToPublish(t *testing.T) {
	w := &fakeWriter{err: errors.New("must not be called")}
	p := &KafkaPublisher{writer: w}

	assert.NoError(t, p.Publish(context.Background()))
}
