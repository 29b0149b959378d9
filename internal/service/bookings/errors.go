package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCannotComplete возвращается, когда завершить можно только подтверждённое бронирование
	ErrCannotComplete = errors.New("booking cannot be completed")

	// ErrCannotConfirm возвращается, когда бронирование не ожидает оплаты
	ErrCannotConfirm = errors.New("booking is not awaiting payment")

	// ErrPaymentExpired возвращается, когда окно оплаты уже закрылось
	ErrPaymentExpired = errors.New("payment window expired")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
