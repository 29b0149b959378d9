package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
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
