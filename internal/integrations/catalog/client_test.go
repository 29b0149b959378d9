package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func fastRetry(attempts uint) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
}

func TestClient_GetService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/businesses/3/services/11", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":11,"business_id":3,"name":"Haircut","duration_minutes":45,"price":"1500.50","currency":"RUB","staff_ids":[5],"is_active":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, fastRetry(1), logger.NewNop())

	svc, err := c.GetService(context.Background(), 3, 11)
	require.NoError(t, err)
	assert.Equal(t, "Haircut", svc.Name)
	assert.Equal(t, 45, svc.DurationMinutes)
	assert.True(t, svc.Price.Equal(decimal.RequireFromString("1500.50")))
	assert.True(t, svc.ProvidedBy(5))
	assert.False(t, svc.ProvidedBy(6))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":3,"name":"Salon","timezone":"Europe/Moscow","manager_ids":[100],"is_active":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, fastRetry(3), logger.NewNop())

	business, err := c.GetBusiness(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.True(t, business.IsManager(100))
	loc, err := business.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, fastRetry(2), logger.NewNop())

	_, err := c.GetBusiness(context.Background(), 3)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, fastRetry(5), logger.NewNop())

	_, err := c.GetPackage(context.Background(), 3, 9)
	assert.ErrorIs(t, err, ErrPackageNotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestBusiness_Location(t *testing.T) {
	loc, err := (&Business{}).Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = (&Business{Timezone: "Mars/Olympus"}).Location()
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}
