package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalog"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// 2025-01-15 - среда
var wednesday = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeCatalog struct {
	business *catalog.Business
	services map[int64]*catalog.Service
	packages map[int64]*catalog.Package
	err      error
}

func (c *fakeCatalog) GetBusiness(_ context.Context, id int64) (*catalog.Business, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.business == nil || c.business.ID != id {
		return nil, catalog.ErrBusinessNotFound
	}
	return c.business, nil
}

func (c *fakeCatalog) GetService(_ context.Context, _, id int64) (*catalog.Service, error) {
	if s, ok := c.services[id]; ok {
		return s, nil
	}
	return nil, catalog.ErrServiceNotFound
}

func (c *fakeCatalog) GetPackage(_ context.Context, _, id int64) (*catalog.Package, error) {
	if p, ok := c.packages[id]; ok {
		return p, nil
	}
	return nil, catalog.ErrPackageNotFound
}

type fakeBookings struct {
	bookings []*domain.Booking
	filter   domain.OccupyingFilter
}

func (r *fakeBookings) GetOccupying(_ context.Context, filter domain.OccupyingFilter) ([]*domain.Booking, error) {
	r.filter = filter
	return r.bookings, nil
}

type fakeHours struct {
	rows []*domain.WorkingHours
	err  error
}

func (r *fakeHours) ListForDay(_ context.Context, _ int64, staffID *int64, day time.Weekday) ([]*domain.WorkingHours, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.WorkingHours, 0)
	for _, row := range r.rows {
		if row.DayOfWeek != day {
			continue
		}
		if row.StaffID == nil || (staffID != nil && *row.StaffID == *staffID) {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeTimeOff struct {
	windows []*domain.TimeOff
}

func (r *fakeTimeOff) ListOverlapping(context.Context, domain.TimeOffFilter) ([]*domain.TimeOff, error) {
	return r.windows, nil
}

type recordedSlots struct{ total, available int }

func (m *recordedSlots) ObserveSlots(total, available int) {
	m.total, m.available = total, available
}

type fixture struct {
	catalog  *fakeCatalog
	bookings *fakeBookings
	hours    *fakeHours
	timeOff  *fakeTimeOff
	metrics  *recordedSlots
	policy   domain.BookingPolicy
	now      time.Time
}

func newFixture() *fixture {
	return &fixture{
		catalog: &fakeCatalog{
			business: &catalog.Business{ID: 1, Timezone: "UTC", StaffIDs: []int64{5, 6}, IsActive: true},
			services: map[int64]*catalog.Service{
				11: {ID: 11, BusinessID: 1, DurationMinutes: 60, IsActive: true},
				12: {ID: 12, BusinessID: 1, DurationMinutes: 30, StaffIDs: []int64{6}, IsActive: true},
			},
			packages: map[int64]*catalog.Package{
				21: {ID: 21, BusinessID: 1, DurationMinutes: 90, IsActive: true},
			},
		},
		bookings: &fakeBookings{},
		hours: &fakeHours{rows: []*domain.WorkingHours{
			{BusinessID: 1, DayOfWeek: time.Wednesday, StartTime: "09:00", EndTime: "12:00", IsActive: true},
		}},
		timeOff: &fakeTimeOff{},
		metrics: &recordedSlots{},
		policy:  domain.DefaultBookingPolicy(),
		now:     time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) useCase() *UseCase {
	return NewUseCase(f.bookings, f.hours, f.timeOff, f.catalog, f.policy, f.metrics, logger.NewNop()).
		WithTimeProvider(fixedTime{now: f.now})
}

func slotTimes(slots []availability.Slot, available bool) []types.TimeString {
	out := make([]types.TimeString, 0)
	for _, s := range slots {
		if s.Available == available {
			out = append(out, s.Time)
		}
	}
	return out
}

func TestExecute_BookedHourBlocksOverlappingStarts(t *testing.T) {
	f := newFixture()
	f.bookings.bookings = []*domain.Booking{
		{ID: 1, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
	}

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(11)),
		Date:       wednesday,
	})
	require.NoError(t, err)

	assert.False(t, resp.Closed)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, []types.TimeString{"09:00", "11:00"}, slotTimes(resp.Slots, true))
	assert.Equal(t, []types.TimeString{"09:30", "10:00", "10:30"}, slotTimes(resp.Slots, false))
	assert.Equal(t, recordedSlots{total: 5, available: 2}, *f.metrics)
	assert.Equal(t, "2025-01-15", f.bookings.filter.Date.Format(domain.DateFormat))
	assert.Equal(t, f.now, f.bookings.filter.Now)
}

func TestExecute_ClosedDay(t *testing.T) {
	f := newFixture()

	// 2025-01-16 - четверг, расписания нет
	resp, err := f.useCase().Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(11)),
		Date:       wednesday.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.True(t, resp.Closed)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_StaffFallsBackToBusinessHours(t *testing.T) {
	f := newFixture()
	f.hours.rows = append(f.hours.rows, &domain.WorkingHours{
		BusinessID: 1, StaffID: ptr.Ptr(int64(6)), DayOfWeek: time.Wednesday,
		StartTime: "14:00", EndTime: "15:00", IsActive: true,
	})

	// у сотрудника 5 своих часов нет - берутся часы бизнеса
	resp, err := f.useCase().Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(11)),
		StaffID:    ptr.Ptr(int64(5)),
		Date:       wednesday,
	})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].Time)

	// у сотрудника 6 свои часы перекрывают часы бизнеса
	resp, err = f.useCase().Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(12)),
		StaffID:    ptr.Ptr(int64(6)),
		Date:       wednesday,
	})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"14:00", "14:30"}, slotTimes(resp.Slots, true))
}

func TestExecute_BusinessTimeOffBlocksStaff(t *testing.T) {
	f := newFixture()
	f.timeOff.windows = []*domain.TimeOff{
		{BusinessID: 1, StartAt: wednesday.Add(10 * time.Hour), EndAt: wednesday.Add(11 * time.Hour)},
	}

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BusinessID: 1,
		PackageID:  ptr.Ptr(int64(21)),
		StaffID:    ptr.Ptr(int64(5)),
		Date:       wednesday,
	})
	require.NoError(t, err)

	// 90 минут: 09:00-10:30 и 09:30-11:00 задевают перерыв, 10:00 и 10:30 внутри него
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Empty(t, slotTimes(resp.Slots, true))
	assert.Len(t, resp.Slots, 4)
}

func TestExecute_PastAndNoticeSlotsUnavailable(t *testing.T) {
	f := newFixture()
	f.now = wednesday.Add(9*time.Hour + 10*time.Minute)
	f.policy.MinBookingNoticeMinutes = 30

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(11)),
		Date:       wednesday,
	})
	require.NoError(t, err)

	// earliest = 09:40
	assert.Equal(t, []types.TimeString{"10:00", "10:30", "11:00"}, slotTimes(resp.Slots, true))
}

func TestExecute_ExpiredPendingDoesNotOccupy(t *testing.T) {
	f := newFixture()
	f.bookings.bookings = []*domain.Booking{
		{ID: 1, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusPendingPayment, PaymentExpiresAt: ptr.Ptr(f.now.Add(-time.Minute))},
	}

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(11)),
		Date:       wednesday,
	})
	require.NoError(t, err)
	assert.Len(t, slotTimes(resp.Slots, true), 5)
}

func TestExecute_BusinessTimezone(t *testing.T) {
	f := newFixture()
	f.catalog.business.Timezone = "Europe/Moscow"
	// 2025-01-15 06:30 UTC = 09:30 по Москве
	f.now = time.Date(2025, 1, 15, 6, 30, 0, 0, time.UTC)

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(11)),
		Date:       wednesday,
	})
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", resp.Timezone)
	assert.Equal(t, []types.TimeString{"09:30", "10:00", "10:30", "11:00"}, slotTimes(resp.Slots, true))
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture)
		req     Request
		wantErr error
	}{
		{
			name:    "no offering",
			req:     Request{BusinessID: 1, Date: wednesday},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "both offerings",
			req:     Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(11)), PackageID: ptr.Ptr(int64(21)), Date: wednesday},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown business",
			req:     Request{BusinessID: 2, ServiceID: ptr.Ptr(int64(11)), Date: wednesday},
			wantErr: ErrBusinessNotFound,
		},
		{
			name:    "inactive business",
			prepare: func(f *fixture) { f.catalog.business.IsActive = false },
			req:     Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(11)), Date: wednesday},
			wantErr: ErrBusinessNotFound,
		},
		{
			name:    "catalog down",
			prepare: func(f *fixture) { f.catalog.err = catalog.ErrUnavailable },
			req:     Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(11)), Date: wednesday},
			wantErr: ErrInternal,
		},
		{
			name:    "unknown timezone",
			prepare: func(f *fixture) { f.catalog.business.Timezone = "Mars/Olympus" },
			req:     Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(11)), Date: wednesday},
			wantErr: ErrInternal,
		},
		{
			name:    "unknown service",
			req:     Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(99)), Date: wednesday},
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "unknown package",
			req:     Request{BusinessID: 1, PackageID: ptr.Ptr(int64(99)), Date: wednesday},
			wantErr: ErrPackageNotFound,
		},
		{
			name:    "unknown staff",
			req:     Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(11)), StaffID: ptr.Ptr(int64(7)), Date: wednesday},
			wantErr: ErrStaffNotFound,
		},
		{
			name:    "staff does not provide service",
			req:     Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(12)), StaffID: ptr.Ptr(int64(5)), Date: wednesday},
			wantErr: ErrStaffDoesNotProvideService,
		},
		{
			name:    "date in past",
			req:     Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(11)), Date: wednesday.AddDate(0, 0, -2)},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "beyond horizon",
			prepare: func(f *fixture) { f.policy.AdvanceBookingDays = 7 },
			req:     Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(11)), Date: wednesday.AddDate(0, 0, 14)},
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name:    "storage failure",
			prepare: func(f *fixture) { f.hours.err = errors.New("connection reset") },
			req:     Request{BusinessID: 1, ServiceID: ptr.Ptr(int64(11)), Date: wednesday},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.prepare != nil {
				tt.prepare(f)
			}

			req := tt.req
			_, err := f.useCase().Execute(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
