package models

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrReasonTooLong возвращается при слишком длинной причине отмены
	ErrReasonTooLong = errors.New("cancellation reason is too long")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// Validate проверяет длину причины отмены
func (r *CancelBookingRequest) Validate() error {
	if utf8.RuneCountInString(r.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: max %d characters", ErrReasonTooLong, domain.MaxCancellationReasonLength)
	}
	return nil
}

// GetCustomerBookingsRequest запрос на получение истории клиента
type GetCustomerBookingsRequest struct {
	UserID     int64   `json:"userId"`
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// GetBusinessBookingsRequest запрос на получение бронирований бизнеса
type GetBusinessBookingsRequest struct {
	UserID          int64      `json:"userId"`
	BusinessID      int64      `json:"businessId"`
	StaffID         *int64     `json:"staffId,omitempty"`         // Фильтр по сотруднику (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessBookingsRequest) ToDomainFilter() (domain.BusinessBookingsFilter, error) {
	filter := domain.BusinessBookingsFilter{
		BusinessID:      r.BusinessID,
		StaffID:         r.StaffID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               int64   `json:"id"`
	CustomerID       int64   `json:"customerId"`
	BusinessID       int64   `json:"businessId"`
	StaffID          *int64  `json:"staffId,omitempty"`
	ServiceID        *int64  `json:"serviceId,omitempty"`
	PackageID        *int64  `json:"packageId,omitempty"`
	BookingDate      string  `json:"bookingDate"` // "2025-10-15"
	StartTime        string  `json:"startTime"`   // "10:00"
	EndTime          string  `json:"endTime"`
	DurationMinutes  int     `json:"durationMinutes"`
	Status           string  `json:"status"`
	PaymentExpiresAt *string `json:"paymentExpiresAt,omitempty"` // RFC 3339

	// Денормализованные данные каталога
	ServiceName string  `json:"serviceName"`
	Price       string  `json:"price"` // десятичная строка, "1500.00"
	Currency    string  `json:"currency"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // RFC 3339

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		BusinessID:         b.BusinessID,
		StaffID:            b.StaffID,
		ServiceID:          b.ServiceID,
		PackageID:          b.PackageID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		PaymentExpiresAt:   formatTime(b.PaymentExpiresAt),
		ServiceName:        b.ServiceName,
		Price:              b.Price.StringFixed(2),
		Currency:           b.Currency,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        formatTime(b.CancelledAt),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !domain.IsValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
