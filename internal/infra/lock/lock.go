package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLockTimeout блокировку не удалось взять за отведённое время
	ErrLockTimeout = errors.New("lock: timed out waiting for lock")

	// ErrLockBackend хранилище блокировок недоступно
	ErrLockBackend = errors.New("lock: backend error")
)

// Locker взаимное исключение по ключу между запросами (и инстансами сервиса).
// unlock идемпотентен.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// SchedulingKey ключ записи на (бизнес, сотрудник, дата).
// Бронирование без сотрудника получает ключ "any" и с ключами сотрудников
// не пересекается: гонку между ними разрешает serializable-транзакция.
func SchedulingKey(businessID int64, staffID *int64, date time.Time) string {
	staff := "any"
	if staffID != nil {
		staff = fmt.Sprintf("%d", *staffID)
	}
	return fmt.Sprintf("scheduling:lock:%d:%s:%s", businessID, staff, date.Format("2006-01-02"))
}
