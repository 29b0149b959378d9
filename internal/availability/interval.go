package availability

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Interval полуоткрытый интервал [Start, End) в минутах от полуночи одной даты.
// End может быть равен 1440, если интервал доходит до конца суток.
type Interval struct {
	Start int
	End   int
}

// Overlaps пересекаются ли [aStart, aEnd) и [bStart, bEnd).
// Интервалы встык (aEnd == bStart) не пересекаются.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// NewInterval строит интервал из пары "HH:MM"
func NewInterval(start, end types.TimeString) (Interval, error) {
	s, err := start.Minutes()
	if err != nil {
		return Interval{}, err
	}
	e, err := end.Minutes()
	if err != nil {
		return Interval{}, err
	}
	i := Interval{Start: s, End: e}
	if err := i.Validate(); err != nil {
		return Interval{}, err
	}
	return i, nil
}

// NewIntervalWithDuration строит интервал [start, start+duration) для записи.
// Конец должен быть представим как "HH:MM", поэтому запись до 24:00 не проходит,
// так же как в TimeString.AddMinutes.
func NewIntervalWithDuration(start types.TimeString, durationMinutes int) (Interval, error) {
	if durationMinutes <= 0 {
		return Interval{}, fmt.Errorf("%w: %d", ErrInvalidDuration, durationMinutes)
	}
	s, err := start.Minutes()
	if err != nil {
		return Interval{}, err
	}
	i := Interval{Start: s, End: s + durationMinutes}
	if err := i.Validate(); err != nil {
		return Interval{}, err
	}
	if i.End >= types.MinutesPerDay {
		return Interval{}, fmt.Errorf("%w: end %d is not a time of day", ErrInvalidInterval, i.End)
	}
	return i, nil
}

func (i Interval) Validate() error {
	if i.Start < 0 || i.End > types.MinutesPerDay || i.Start >= i.End {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidInterval, i.Start, i.End)
	}
	return nil
}

func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

// Contains true, если other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

func (i Interval) Duration() int {
	return i.End - i.Start
}

func (i Interval) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", i.Start/60, i.Start%60, i.End/60, i.End%60)
}
