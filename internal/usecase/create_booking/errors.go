package create_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден или неактивен
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrPackageNotFound возвращается, когда пакет услуг не найден
	ErrPackageNotFound = errors.New("create_booking: package not found")

	// ErrStaffNotFound возвращается, когда сотрудник не работает в бизнесе
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrStaffDoesNotProvideService возвращается, когда сотрудник не оказывает услугу
	ErrStaffDoesNotProvideService = errors.New("create_booking: staff member does not provide this service")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата за горизонтом записи
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrBusinessClosed возвращается, когда на этот день нет рабочих часов
	ErrBusinessClosed = errors.New("create_booking: business is closed on this date")

	// ErrOutsideWorkingHours возвращается, когда интервал записи выходит за рабочие часы
	ErrOutsideWorkingHours = errors.New("create_booking: booking is outside working hours")

	// ErrInvalidTimeSlot возвращается, когда запись не помещается в сутки
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда начало уже прошло или ближе минимального срока записи
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotBlocked возвращается, когда интервал попадает на окно отсутствия
	ErrSlotBlocked = errors.New("create_booking: slot is blocked by time off")

	// ErrSlotConflict возвращается, когда интервал пересекается с существующим бронированием
	ErrSlotConflict = errors.New("create_booking: slot no longer available")

	// ErrSlotBusy не дождались блокировки записи на этот день
	ErrSlotBusy = errors.New("create_booking: too many concurrent bookings, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
