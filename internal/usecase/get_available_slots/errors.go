package get_available_slots

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден или неактивен
	ErrBusinessNotFound = errors.New("business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в бизнесе
	ErrServiceNotFound = errors.New("service not found")

	// ErrPackageNotFound возвращается, когда пакет услуг не найден в бизнесе
	ErrPackageNotFound = errors.New("package not found")

	// ErrStaffNotFound возвращается, когда сотрудник не работает в бизнесе
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrStaffDoesNotProvideService возвращается, когда сотрудник не оказывает услугу
	ErrStaffDoesNotProvideService = errors.New("staff member does not provide this service")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата за горизонтом записи
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
