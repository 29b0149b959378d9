package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalog"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetOccupying бронирования, занимающие время на дату
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

// Metrics метрики генератора слотов
type Metrics interface {
	ObserveSlots(total, available int)
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
