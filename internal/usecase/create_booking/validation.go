package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if (req.ServiceID == nil) == (req.PackageID == nil) {
		return fmt.Errorf("%w: exactly one of serviceID and packageID is required", ErrInvalidInput)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.PackageID != nil && *req.PackageID <= 0 {
		return fmt.Errorf("%w: packageID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не за горизонтом записи.
// day - полночь даты в часовом поясе бизнеса.
func validateDate(day time.Time, now time.Time, policy domain.BookingPolicy) error {
	local := now.In(day.Location())
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, day.Location())

	if day.Before(today) {
		return ErrInvalidDate
	}

	if last, ok := policy.LastBookableDate(now, day.Location()); ok && day.After(last) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.AdvanceBookingDays)
	}

	return nil
}

// validateBookingTime начало записи не раньше now + minBookingNotice
func validateBookingTime(startAt time.Time, now time.Time, policy domain.BookingPolicy) error {
	if startAt.Before(policy.EarliestStart(now)) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, policy.MinBookingNoticeMinutes)
	}
	return nil
}
