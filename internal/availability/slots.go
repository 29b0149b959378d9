package availability

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// SlotStepMinutes шаг сетки слотов. Не зависит от длительности услуги:
// начала слотов всегда идут через 30 минут от начала рабочего дня.
const SlotStepMinutes = 30

// SlotRequest входные данные генератора на одну дату
type SlotRequest struct {
	WorkingHours    *Interval // nil - выходной
	DurationMinutes int
	Occupied        []Interval // занятые бронированиями интервалы
	TimeOff         []Interval // уже отфильтрованные и обрезанные по дате окна отсутствия
}

// Slot кандидат начала записи
type Slot struct {
	Time      types.TimeString
	Available bool
}

// GenerateSlots строит сетку слотов на день.
// Недоступные слоты не выбрасываются, а помечаются Available=false.
func GenerateSlots(req SlotRequest) ([]Slot, error) {
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, req.DurationMinutes)
	}

	if req.WorkingHours == nil {
		return []Slot{}, nil
	}

	wh := *req.WorkingHours
	if err := wh.Validate(); err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, wh.Duration()/SlotStepMinutes+1)

	for cursor := wh.Start; cursor+req.DurationMinutes <= wh.End; cursor += SlotStepMinutes {
		candidate := Interval{Start: cursor, End: cursor + req.DurationMinutes}

		start, err := types.NewTimeStringFromMinutes(cursor)
		if err != nil {
			return nil, err
		}

		slots = append(slots, Slot{
			Time:      start,
			Available: !HasConflict(candidate, req.Occupied) && !HasConflict(candidate, req.TimeOff),
		})
	}

	return slots, nil
}

// CountAvailable количество доступных слотов
func CountAvailable(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
}
