package dbmetrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedQuery struct {
	operation string
	failed    bool
}

type fakeRecorder struct {
	mu      sync.Mutex
	queries []recordedQuery
}

func (r *fakeRecorder) ObserveDBQuery(operation string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, recordedQuery{operation: operation, failed: err != nil})
}

func (r *fakeRecorder) SetDBPoolStats(int, int, int, int64) {}

func TestDB_RecordsOperations(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	rec := &fakeRecorder{}
	db := Wrap(sqlDB, rec)

	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	_, err = db.ExecContext(context.Background(), "UPDATE bookings SET status = $1", "cancelled")
	require.NoError(t, err)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	var id int64
	require.NoError(t, tx.QueryRowContext(context.Background(), "SELECT id FROM bookings").Scan(&id))
	require.NoError(t, tx.Commit())

	assert.Equal(t, []recordedQuery{
		{operation: "update"},
		{operation: "select"},
		{operation: "commit"},
	}, rec.queries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutor(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := Wrap(sqlDB, nil)
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db))

	mock.ExpectBegin()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, tx, GetExecutor(txCtx, db))
}
