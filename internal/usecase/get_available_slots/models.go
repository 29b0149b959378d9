package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
)

// Request модель запроса на получение слотов.
// Задаётся ровно одно из ServiceID и PackageID.
type Request struct {
	BusinessID int64
	ServiceID  *int64
	PackageID  *int64
	StaffID    *int64    // nil - расписание бизнеса целиком
	Date       time.Time // календарная дата, время и зона игнорируются
}

// Response сетка слотов на дату
type Response struct {
	Date            time.Time // дата в часовом поясе бизнеса
	BusinessID      int64
	ServiceID       *int64
	PackageID       *int64
	StaffID         *int64
	DurationMinutes int
	Timezone        string
	Closed          bool // нет рабочих часов на этот день
	Slots           []availability.Slot
}
