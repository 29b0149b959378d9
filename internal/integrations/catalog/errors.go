package catalog

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("catalog client: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("catalog client: service not found")

	// ErrPackageNotFound возвращается, когда пакет услуг не найден
	ErrPackageNotFound = errors.New("catalog client: package not found")

	// ErrUnavailable каталог недоступен (сеть или 5xx), запрос можно повторить
	ErrUnavailable = errors.New("catalog client: service unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalog client: internal error")

	// ErrInvalidTimezone часовой пояс бизнеса не найден в базе IANA
	ErrInvalidTimezone = errors.New("catalog client: invalid business timezone")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalog client: invalid response")
)
