package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// FromWorkingHours строки расписания из хранилища. Неактивные пропускаются.
func FromWorkingHours(rows []*domain.WorkingHours) []WeeklyHours {
	hours := make([]WeeklyHours, 0, len(rows))
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		hours = append(hours, WeeklyHours{
			StaffID: row.StaffID,
			Weekday: row.DayOfWeek,
			Start:   row.StartTime,
			End:     row.EndTime,
		})
	}
	return hours
}

// FromTimeOff окна отсутствия из хранилища
func FromTimeOff(rows []*domain.TimeOff) []TimeOffWindow {
	windows := make([]TimeOffWindow, 0, len(rows))
	for _, row := range rows {
		windows = append(windows, TimeOffWindow{
			StaffID: row.StaffID,
			Start:   row.StartAt,
			End:     row.EndAt,
		})
	}
	return windows
}

// OccupiedIntervals интервалы бронирований, которые занимают время в момент now
func OccupiedIntervals(bookings []*domain.Booking, now time.Time) ([]Interval, error) {
	occupied := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if !b.OccupiesAt(now) {
			continue
		}
		interval, err := NewInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("booking id=%d: %w", b.ID, err)
		}
		occupied = append(occupied, interval)
	}
	return occupied, nil
}
