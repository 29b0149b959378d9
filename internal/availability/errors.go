package availability

import "errors"

var (
	// ErrInvalidDuration длительность услуги должна быть положительной
	ErrInvalidDuration = errors.New("availability: duration must be positive")

	// ErrInvalidInterval интервал пустой, перевёрнут или выходит за пределы суток
	ErrInvalidInterval = errors.New("availability: invalid interval")
)
