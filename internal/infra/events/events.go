package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Типы событий жизненного цикла бронирования
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingCompleted = "booking.completed"
	TypeBookingExpired   = "booking.expired"
)

// BookingEvent сообщение для уведомлений и биллинга
type BookingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`

	BookingID  int64                `json:"booking_id"`
	BusinessID int64                `json:"business_id"`
	CustomerID int64                `json:"customer_id"`
	StaffID    *int64               `json:"staff_id,omitempty"`
	ServiceID  *int64               `json:"service_id,omitempty"`
	PackageID  *int64               `json:"package_id,omitempty"`
	Date       string               `json:"date"`
	StartTime  string               `json:"start_time"`
	EndTime    string               `json:"end_time"`
	Status     domain.BookingStatus `json:"status"`
	Price      string               `json:"price"`
	Currency   string               `json:"currency"`
	Reason     *string              `json:"reason,omitempty"`
}

// NewBookingEvent собирает событие из бронирования
func NewBookingEvent(eventType string, b *domain.Booking, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: occurredAt.UTC(),
		BookingID:  b.ID,
		BusinessID: b.BusinessID,
		CustomerID: b.CustomerID,
		StaffID:    b.StaffID,
		ServiceID:  b.ServiceID,
		PackageID:  b.PackageID,
		Date:       b.BookingDate.Format(domain.DateFormat),
		StartTime:  b.StartTime.String(),
		EndTime:    b.EndTime.String(),
		Status:     b.Status,
		Price:      b.Price.StringFixed(2),
		Currency:   b.Currency,
		Reason:     b.CancellationReason,
	}
}

// Publisher отправка событий бронирований
type Publisher interface {
	Publish(ctx context.Context, events ...BookingEvent) error
	Close() error
}

// NoopPublisher используется, когда Kafka выключена
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...BookingEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
