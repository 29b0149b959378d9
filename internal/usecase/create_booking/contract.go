package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/events"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalog"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetOccupying(ctx context.Context, filter domain.OccupyingFilter) ([]*domain.Booking, error)
}

// WorkingHoursRepository интерфейс репозитория расписания
type WorkingHoursRepository interface {
	ListForDay(ctx context.Context, businessID int64, staffID *int64, day time.Weekday) ([]*domain.WorkingHours, error)
}

// TimeOffRepository интерфейс репозитория окон отсутствия
type TimeOffRepository interface {
	ListOverlapping(ctx context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOff, error)
}

// CatalogClient интерфейс клиента каталога бизнесов и услуг
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*catalog.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*catalog.Service, error)
	GetPackage(ctx context.Context, businessID, packageID int64) (*catalog.Package, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker блокировка по ключу записи (бизнес, сотрудник, дата)
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// EventPublisher публикация событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, evs ...events.BookingEvent) error
}

// Metrics метрики записи
type Metrics interface {
	IncBookingConflict()
	IncBookingCreated(status string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
