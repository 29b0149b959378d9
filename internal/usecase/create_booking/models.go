package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на создание бронирования.
// Задаётся ровно одно из ServiceID и PackageID.
type Request struct {
	CustomerID int64            // ID клиента (из X-User-ID)
	BusinessID int64            // ID бизнеса
	ServiceID  *int64           // ID услуги
	PackageID  *int64           // ID пакета услуг
	StaffID    *int64           // Сотрудник (опционально)
	Date       time.Time        // Календарная дата записи
	StartTime  types.TimeString // Время начала, например "10:00"
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response созданное бронирование
type Response struct {
	Booking *domain.Booking
}
