package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
)

// closeBeforeEarliest помечает недоступными слоты, начало которых раньше earliest
// (уже прошли или не выдерживают минимальный срок записи).
// day - полночь даты в часовом поясе бизнеса.
func closeBeforeEarliest(slots []availability.Slot, day time.Time, earliest time.Time) error {
	for i := range slots {
		if !slots[i].Available {
			continue
		}
		startAt, err := slots[i].Time.OnDate(day)
		if err != nil {
			return err
		}
		if startAt.Before(earliest) {
			slots[i].Available = false
		}
	}
	return nil
}

// localDay полночь календарной даты date в зоне loc
func localDay(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
