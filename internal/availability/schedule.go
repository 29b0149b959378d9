package availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// WeeklyHours рабочие часы на день недели. StaffID == nil - часы всего бизнеса
type WeeklyHours struct {
	StaffID *int64
	Weekday time.Weekday
	Start   types.TimeString
	End     types.TimeString
}

// ResolveWorkingHours выбирает рабочие часы на weekday.
// Для сотрудника сначала ищутся его собственные часы, если их нет - часы бизнеса.
// nil без ошибки означает выходной.
func ResolveWorkingHours(hours []WeeklyHours, staffID *int64, weekday time.Weekday) (*Interval, error) {
	var business, staff *WeeklyHours

	for i := range hours {
		h := &hours[i]
		if h.Weekday != weekday {
			continue
		}
		switch {
		case h.StaffID == nil:
			business = h
		case staffID != nil && *h.StaffID == *staffID:
			staff = h
		}
	}

	chosen := business
	if staff != nil {
		chosen = staff
	}
	if chosen == nil {
		return nil, nil
	}

	interval, err := NewInterval(chosen.Start, chosen.End)
	if err != nil {
		return nil, err
	}
	return &interval, nil
}

// TimeOffWindow абсолютный интервал отсутствия [Start, End).
// Может переходить через полночь и длиться несколько дней.
type TimeOffWindow struct {
	StaffID *int64 // nil - действует на весь бизнес
	Start   time.Time
	End     time.Time
}

// AppliesTo действует ли окно при расчёте для staffID.
// Окна бизнеса действуют всегда, окна сотрудника - только для него самого.
func (w TimeOffWindow) AppliesTo(staffID *int64) bool {
	if w.StaffID == nil {
		return true
	}
	return staffID != nil && *w.StaffID == *staffID
}

// BlockedIntervals отбирает подходящие окна и обрезает их по календарному дню day.
// day задаёт дату и часовой пояс бизнеса, время внутри дня игнорируется.
func BlockedIntervals(windows []TimeOffWindow, staffID *int64, day time.Time) []Interval {
	loc := day.Location()
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	blocked := make([]Interval, 0, len(windows))
	for _, w := range windows {
		if !w.AppliesTo(staffID) {
			continue
		}

		start, end := w.Start, w.End
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}
		if !start.Before(end) {
			continue
		}

		interval := Interval{
			Start: minuteOfDay(start, dayStart, loc),
			End:   types.MinutesPerDay,
		}
		if end.Before(dayEnd) {
			interval.End = minuteOfDay(end, dayStart, loc)
		}
		if interval.Start >= interval.End {
			continue
		}

		blocked = append(blocked, interval)
	}

	return blocked
}

// minuteOfDay минуты от полуночи по настенным часам loc.
// Считается по wall clock, а не через Sub, чтобы дни перехода на летнее время не сдвигали сетку.
func minuteOfDay(t time.Time, dayStart time.Time, loc *time.Location) int {
	if !t.After(dayStart) {
		return 0
	}
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}
