package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusCompleted      BookingStatus = "completed"
	StatusCancelled      BookingStatus = "cancelled"
)

// transitions allowed moves of the status machine
var transitions = map[BookingStatus][]BookingStatus{
	StatusPendingPayment: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusCompleted, StatusCancelled},
}

// Booking represents an appointment of a customer at a business
type Booking struct {
	ID              int64
	CustomerID      int64
	BusinessID      int64
	StaffID         *int64 // nil - booking is not assigned to a staff member
	ServiceID       *int64 // задан ровно один из ServiceID и PackageID
	PackageID       *int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          BookingStatus

	// PaymentExpiresAt is set for pending_payment bookings only
	PaymentExpiresAt *time.Time

	// Denormalized catalog data for history
	ServiceName string
	Price       decimal.Decimal
	Currency    string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValidStatus reports whether s is a known status
func IsValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPendingPayment, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the booking may move to next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsPaymentExpired is true for a pending_payment booking whose payment window has passed
func (b *Booking) IsPaymentExpired(now time.Time) bool {
	return b.Status == StatusPendingPayment &&
		b.PaymentExpiresAt != nil &&
		!now.Before(*b.PaymentExpiresAt)
}

// OccupiesAt reports whether the booking blocks its interval at moment now.
// Cancelled bookings never occupy, pending ones occupy until the payment window ends.
func (b *Booking) OccupiesAt(now time.Time) bool {
	if b.Status == StatusCancelled {
		return false
	}
	return !b.IsPaymentExpired(now)
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.CanTransitionTo(StatusCancelled)
}

// BusinessBookingsFilter фильтр для получения бронирований бизнеса
type BusinessBookingsFilter struct {
	BusinessID      int64          // Обязательный параметр
	StaffID         *int64         // Фильтр по сотруднику (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые бронирования
}

// OccupyingFilter выборка бронирований, занимающих время на одну дату.
// Используется генератором слотов и проверкой конфликтов при записи.
type OccupyingFilter struct {
	BusinessID int64
	StaffID    *int64 // nil - все бронирования бизнеса
	Date       time.Time
	Now        time.Time // pending_payment с истёкшим окном оплаты не учитываются
}
