package workinghours

import "errors"

var (
	// ErrWorkingHoursNotFound возвращается, когда строка расписания не найдена
	ErrWorkingHoursNotFound = errors.New("workinghours.repository: working hours not found")

	// ErrDuplicateWorkingHours расписание для этого дня и области уже есть
	ErrDuplicateWorkingHours = errors.New("workinghours.repository: duplicate working hours for day and scope")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("workinghours.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("workinghours.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("workinghours.repository: failed to scan row")
)
