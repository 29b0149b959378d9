package booking

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var testDate = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func bookingRow(id int64, start, end string, status domain.BookingStatus) []driver.Value {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, int64(100), int64(1), int64(5), int64(11), nil,
		testDate, start, end, int64(60), string(status), nil,
		"Haircut", "1500.00", "RUB", nil, nil, nil, now, now,
	}
}

func TestRepository_Create(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRepository(sqlDB)
	created := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(
			int64(100), int64(1), sqlmock.AnyArg(), int64(11), sqlmock.AnyArg(),
			"2025-01-15", "10:00", "11:00", 60, sqlmock.AnyArg(), sqlmock.AnyArg(),
			"Haircut", sqlmock.AnyArg(), "RUB", sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), created, created))

	booking, err := repo.Create(context.Background(), &domain.Booking{
		CustomerID:      100,
		BusinessID:      1,
		StaffID:         ptr.Ptr(int64(5)),
		ServiceID:       ptr.Ptr(int64(11)),
		BookingDate:     testDate,
		StartTime:       types.TimeString("10:00"),
		EndTime:         types.TimeString("11:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		ServiceName:     "Haircut",
		Price:           decimal.RequireFromString("1500"),
		Currency:        "RUB",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), booking.ID)
	assert.Equal(t, created, booking.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT .* FROM bookings WHERE id = \\$1").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err = NewRepository(sqlDB).GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetOccupying_LocksRowsInTransaction(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRepository(sqlDB)
	now := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM bookings WHERE .*payment_expires_at > .*\\(staff_id = \\$6 OR staff_id IS NULL\\) .*FOR UPDATE").
		WithArgs(int64(1), "2025-01-15", "cancelled", "pending_payment", now, int64(5)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(bookingRow(1, "09:00", "10:00", domain.StatusConfirmed)...).
			AddRow(bookingRow(2, "12:00", "13:00", domain.StatusPendingPayment)...))
	mock.ExpectCommit()

	tx, err := sqlDB.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	bookings, err := repo.GetOccupying(ctx, domain.OccupyingFilter{
		BusinessID: 1,
		StaffID:    ptr.Ptr(int64(5)),
		Date:       testDate,
		Now:        now,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.Len(t, bookings, 2)
	assert.Equal(t, types.TimeString("09:00"), bookings[0].StartTime)
	assert.Equal(t, domain.StatusPendingPayment, bookings[1].Status)
	assert.Equal(t, int64(5), *bookings[1].StaffID)
	assert.True(t, bookings[1].Price.Equal(decimal.RequireFromString("1500")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetOccupying_NoLockOutsideTransaction(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherFunc(func(_, actual string) error {
		assert.NotContains(t, actual, "FOR UPDATE")
		assert.NotContains(t, actual, "staff_id =")
		return nil
	})))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("").WillReturnRows(sqlmock.NewRows(columns))

	bookings, err := NewRepository(sqlDB).GetOccupying(context.Background(), domain.OccupyingFilter{
		BusinessID: 1,
		Date:       testDate,
		Now:        time.Now(),
	})
	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NotNil(t, bookings)
}

func TestRepository_UpdateStatus_StatusChanged(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec("UPDATE bookings SET status = \\$1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewRepository(sqlDB).UpdateStatus(context.Background(), 3, domain.StatusPendingPayment, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusChanged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ConfirmPayment(t *testing.T) {
	now := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{name: "window open", rows: 1},
		{name: "window closed or status changed", rows: 0, wantErr: ErrStatusChanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer sqlDB.Close()

			mock.ExpectExec("UPDATE bookings SET status = \\$1, payment_expires_at = \\$2, updated_at = NOW\\(\\) " +
				"WHERE id = \\$3 AND status = \\$4 AND \\(payment_expires_at IS NULL OR payment_expires_at > \\$5\\)").
				WithArgs(domain.StatusConfirmed, nil, int64(3), domain.StatusPendingPayment, now).
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err = NewRepository(sqlDB).ConfirmPayment(context.Background(), 3, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_ExpirePending(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	now := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)
	row := bookingRow(9, "10:00", "11:00", domain.StatusCancelled)

	mock.ExpectQuery("UPDATE bookings SET .* WHERE status = .* AND payment_expires_at <= .* RETURNING").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(row...))

	expired, err := NewRepository(sqlDB).ExpirePending(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, int64(9), expired[0].ID)
	assert.Equal(t, domain.StatusCancelled, expired[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
