package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func hours(t *testing.T, start, end string) *Interval {
	t.Helper()
	i, err := NewInterval(types.MustTimeString(start), types.MustTimeString(end))
	require.NoError(t, err)
	return &i
}

func span(t *testing.T, start, end string) Interval {
	t.Helper()
	return *hours(t, start, end)
}

func TestOverlaps(t *testing.T) {
	assert.False(t, span(t, "10:00", "10:30").Overlaps(span(t, "10:30", "11:00")), "back-to-back")
	assert.True(t, span(t, "10:00", "10:30").Overlaps(span(t, "10:29", "11:00")))
	assert.True(t, span(t, "09:00", "12:00").Overlaps(span(t, "10:00", "10:15")), "containment")
	assert.False(t, span(t, "11:00", "12:00").Overlaps(span(t, "09:00", "11:00")))
	assert.True(t, Overlaps(600, 660, 659, 700))
}

func TestNewInterval_Invalid(t *testing.T) {
	_, err := NewInterval(types.MustTimeString("10:00"), types.MustTimeString("10:00"))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(types.MustTimeString("12:00"), types.MustTimeString("10:00"))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewIntervalWithDuration(types.MustTimeString("23:30"), 60)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	// конец ровно в полночь не представим как "HH:MM"
	_, err = NewIntervalWithDuration(types.MustTimeString("23:00"), 60)
	assert.ErrorIs(t, err, ErrInvalidInterval)
	_, err = types.MustTimeString("23:00").AddMinutes(60)
	assert.Error(t, err)

	last, err := NewIntervalWithDuration(types.MustTimeString("23:00"), 59)
	require.NoError(t, err)
	assert.Equal(t, 1439, last.End)

	_, err = NewIntervalWithDuration(types.MustTimeString("10:00"), 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestGenerateSlots_HourBookedMidMorning(t *testing.T) {
	slots, err := GenerateSlots(SlotRequest{
		WorkingHours:    hours(t, "09:00", "12:00"),
		DurationMinutes: 60,
		Occupied:        []Interval{span(t, "10:00", "11:00")},
	})
	require.NoError(t, err)

	assert.Equal(t, []Slot{
		{Time: "09:00", Available: true},
		{Time: "09:30", Available: false},
		{Time: "10:00", Available: false},
		{Time: "10:30", Available: false},
		{Time: "11:00", Available: true},
	}, slots)
}

func TestGenerateSlots_ClosedDay(t *testing.T) {
	slots, err := GenerateSlots(SlotRequest{DurationMinutes: 30})
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGenerateSlots_InvalidDuration(t *testing.T) {
	for _, d := range []int{0, -15} {
		_, err := GenerateSlots(SlotRequest{WorkingHours: hours(t, "09:00", "17:00"), DurationMinutes: d})
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}
}

func TestGenerateSlots_BoundaryFit(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		duration  int
		wantCount int
		wantLast  types.TimeString
	}{
		{name: "full day 30 min", start: "09:00", end: "17:00", duration: 30, wantCount: 16, wantLast: "16:30"},
		{name: "quarter past end stays on grid", start: "09:00", end: "17:15", duration: 30, wantCount: 16, wantLast: "16:30"},
		{name: "45 min service", start: "09:00", end: "12:00", duration: 45, wantCount: 5, wantLast: "11:00"},
		{name: "grid anchored at opening", start: "09:15", end: "11:15", duration: 60, wantCount: 3, wantLast: "10:15"},
		{name: "duration equals window", start: "10:00", end: "11:00", duration: 60, wantCount: 1, wantLast: "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := GenerateSlots(SlotRequest{
				WorkingHours:    hours(t, tt.start, tt.end),
				DurationMinutes: tt.duration,
			})
			require.NoError(t, err)
			require.Len(t, slots, tt.wantCount)
			assert.Equal(t, tt.wantLast, slots[len(slots)-1].Time)
			for _, s := range slots {
				assert.True(t, s.Available)
			}
		})
	}
}

func TestGenerateSlots_DurationLongerThanDay(t *testing.T) {
	slots, err := GenerateSlots(SlotRequest{
		WorkingHours:    hours(t, "09:00", "10:00"),
		DurationMinutes: 90,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_TimeOff(t *testing.T) {
	slots, err := GenerateSlots(SlotRequest{
		WorkingHours:    hours(t, "11:00", "14:00"),
		DurationMinutes: 30,
		TimeOff:         []Interval{span(t, "12:00", "13:00")},
	})
	require.NoError(t, err)

	got := map[types.TimeString]bool{}
	for _, s := range slots {
		got[s.Time] = s.Available
	}
	assert.Equal(t, map[types.TimeString]bool{
		"11:00": true, "11:30": true,
		"12:00": false, "12:30": false,
		"13:00": true, "13:30": true,
	}, got)
}

func TestGenerateSlots_NeverAvailableOverOccupied(t *testing.T) {
	occupied := []Interval{span(t, "09:10", "09:50"), span(t, "13:45", "14:05"), span(t, "16:59", "17:00")}
	timeOff := []Interval{span(t, "12:00", "12:20")}

	for _, duration := range []int{15, 30, 45, 60, 90} {
		slots, err := GenerateSlots(SlotRequest{
			WorkingHours:    hours(t, "09:00", "17:00"),
			DurationMinutes: duration,
			Occupied:        occupied,
			TimeOff:         timeOff,
		})
		require.NoError(t, err)

		for _, s := range slots {
			if !s.Available {
				continue
			}
			candidate, err := NewIntervalWithDuration(s.Time, duration)
			require.NoError(t, err)
			for _, o := range append(append([]Interval{}, occupied...), timeOff...) {
				assert.False(t, candidate.Overlaps(o), "slot %s (%d min) overlaps %s", s.Time, duration, o)
			}
		}
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	req := SlotRequest{
		WorkingHours:    hours(t, "08:00", "20:00"),
		DurationMinutes: 50,
		Occupied:        []Interval{span(t, "10:00", "11:30")},
	}

	first, err := GenerateSlots(req)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := GenerateSlots(req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestHasConflict(t *testing.T) {
	existing := []Interval{span(t, "10:00", "11:00"), span(t, "14:00", "15:00")}

	assert.False(t, HasConflict(span(t, "11:00", "12:00"), existing))
	assert.False(t, HasConflict(span(t, "09:00", "10:00"), existing))
	assert.True(t, HasConflict(span(t, "10:59", "11:30"), existing))
	assert.True(t, HasConflict(span(t, "13:00", "16:00"), existing))
	assert.False(t, HasConflict(span(t, "10:00", "11:00"), nil))
}

func TestCountAvailable(t *testing.T) {
	assert.Equal(t, 2, CountAvailable([]Slot{{Available: true}, {Available: false}, {Available: true}}))
}
