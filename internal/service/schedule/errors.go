package schedule

import "errors"

var (
	// ErrWorkingHoursNotFound возвращается, когда строка расписания не найдена
	ErrWorkingHoursNotFound = errors.New("working hours not found")

	// ErrTimeOffNotFound возвращается, когда окно отсутствия не найдено
	ErrTimeOffNotFound = errors.New("time off not found")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrStaffNotFound возвращается, когда сотрудник не работает в бизнесе
	ErrStaffNotFound = errors.New("staff not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrConcurrentUpdate расписание этого дня изменили параллельно
	ErrConcurrentUpdate = errors.New("working hours were changed concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
