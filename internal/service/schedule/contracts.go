package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalog"
)

// WorkingHoursRepository интерфейс репозитория рабочих часов
type WorkingHoursRepository interface {
	Create(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error)
	GetByScopeAndDay(ctx context.Context, businessID int64, staffID *int64, day time.Weekday) (*domain.WorkingHours, error)
	ListByBusiness(ctx context.Context, businessID int64, staffID *int64) ([]*domain.WorkingHours, error)
	Update(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error)
	Delete(ctx context.Context, id int64) error
}

// TimeOffRepository интерфейс репозитория окон отсутствия
type TimeOffRepository interface {
	Create(ctx context.Context, timeOff *domain.TimeOff) (*domain.TimeOff, error)
	ListOverlapping(ctx context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOff, error)
	Delete(ctx context.Context, businessID, id int64) error
}

// CatalogClient интерфейс клиента каталога
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*catalog.Business, error)
}

// TransactionManager транзакция для upsert расписания
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
