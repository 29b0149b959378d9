package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

func TestResolveWorkingHours(t *testing.T) {
	weekly := []WeeklyHours{
		{Weekday: time.Monday, Start: "09:00", End: "18:00"},
		{Weekday: time.Tuesday, Start: "10:00", End: "16:00"},
		{StaffID: ptr.Ptr(int64(7)), Weekday: time.Monday, Start: "12:00", End: "20:00"},
		{StaffID: ptr.Ptr(int64(8)), Weekday: time.Wednesday, Start: "08:00", End: "12:00"},
	}

	tests := []struct {
		name    string
		staffID *int64
		weekday time.Weekday
		want    *Interval
	}{
		{name: "business hours", weekday: time.Monday, want: &Interval{Start: 540, End: 1080}},
		{name: "staff own hours win", staffID: ptr.Ptr(int64(7)), weekday: time.Monday, want: &Interval{Start: 720, End: 1200}},
		{name: "staff falls back to business", staffID: ptr.Ptr(int64(7)), weekday: time.Tuesday, want: &Interval{Start: 600, End: 960}},
		{name: "other staff rows ignored", staffID: ptr.Ptr(int64(9)), weekday: time.Monday, want: &Interval{Start: 540, End: 1080}},
		{name: "staff works when business closed", staffID: ptr.Ptr(int64(8)), weekday: time.Wednesday, want: &Interval{Start: 480, End: 720}},
		{name: "business-level ignores staff rows", weekday: time.Wednesday, want: nil},
		{name: "closed", weekday: time.Sunday, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveWorkingHours(weekly, tt.staffID, tt.weekday)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveWorkingHours_InvalidRow(t *testing.T) {
	_, err := ResolveWorkingHours([]WeeklyHours{{Weekday: time.Friday, Start: "18:00", End: "09:00"}}, nil, time.Friday)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestTimeOffWindow_AppliesTo(t *testing.T) {
	business := TimeOffWindow{}
	staff := TimeOffWindow{StaffID: ptr.Ptr(int64(3))}

	assert.True(t, business.AppliesTo(nil))
	assert.True(t, business.AppliesTo(ptr.Ptr(int64(3))))
	assert.True(t, staff.AppliesTo(ptr.Ptr(int64(3))))
	assert.False(t, staff.AppliesTo(ptr.Ptr(int64(4))))
	assert.False(t, staff.AppliesTo(nil))
}

func TestBlockedIntervals(t *testing.T) {
	loc := time.FixedZone("Europe/Test", 3*60*60)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, loc)
	at := func(d, h, m int) time.Time { return time.Date(2025, 6, d, h, m, 0, 0, loc) }

	windows := []TimeOffWindow{
		// business-wide lunch
		{Start: at(10, 12, 0), End: at(10, 13, 0)},
		// crosses midnight into the day
		{StaffID: ptr.Ptr(int64(1)), Start: at(9, 22, 0), End: at(10, 2, 30)},
		// starts late and spans several days
		{StaffID: ptr.Ptr(int64(1)), Start: at(10, 23, 0), End: at(12, 9, 0)},
		// other staff
		{StaffID: ptr.Ptr(int64(2)), Start: at(10, 9, 0), End: at(10, 10, 0)},
		// other day
		{Start: at(11, 9, 0), End: at(11, 18, 0)},
		// stored in UTC
		{Start: at(10, 15, 0).UTC(), End: at(10, 15, 45).UTC()},
	}

	t.Run("business level", func(t *testing.T) {
		got := BlockedIntervals(windows, nil, day)
		assert.Equal(t, []Interval{
			{Start: 720, End: 780},
			{Start: 900, End: 945},
		}, got)
	})

	t.Run("staff 1", func(t *testing.T) {
		got := BlockedIntervals(windows, ptr.Ptr(int64(1)), day)
		assert.Equal(t, []Interval{
			{Start: 720, End: 780},
			{Start: 0, End: 150},
			{Start: 1380, End: 1440},
			{Start: 900, End: 945},
		}, got)
	})

	t.Run("whole day off", func(t *testing.T) {
		got := BlockedIntervals([]TimeOffWindow{{Start: at(9, 0, 0), End: at(12, 0, 0)}}, nil, day)
		assert.Equal(t, []Interval{{Start: 0, End: 1440}}, got)
	})
}

func TestBusinessTimeOffBlocksEveryStaff(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	lunch := []TimeOffWindow{{
		Start: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC),
	}}

	for _, staffID := range []*int64{nil, ptr.Ptr(int64(1)), ptr.Ptr(int64(2))} {
		slots, err := GenerateSlots(SlotRequest{
			WorkingHours:    &Interval{Start: 11 * 60, End: 14 * 60},
			DurationMinutes: 30,
			TimeOff:         BlockedIntervals(lunch, staffID, day),
		})
		require.NoError(t, err)

		for _, s := range slots {
			blocked := s.Time == "12:00" || s.Time == "12:30"
			assert.Equal(t, !blocked, s.Available, "slot %s", s.Time)
		}
	}
}
