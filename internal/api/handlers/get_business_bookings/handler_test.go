package get_business_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct {
	req *models.GetBusinessBookingsRequest
	err error
}

func (f *fakeService) GetBusinessBookings(_ context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/businesses/{businessId}/bookings", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 7))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_SingleDateFilter(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/businesses/1/bookings?staffId=5&date=2025-01-15&status=confirmed&includeInactive=true")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.req)
	assert.Equal(t, int64(7), svc.req.UserID)
	assert.Equal(t, int64(5), *svc.req.StaffID)
	assert.Equal(t, svc.req.StartDate, svc.req.EndDate)
	assert.Equal(t, "confirmed", *svc.req.Status)
	assert.True(t, svc.req.IncludeInactive)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{"bad date", "/businesses/1/bookings?date=yesterday", nil, http.StatusBadRequest},
		{"bad flag", "/businesses/1/bookings?includeInactive=maybe", nil, http.StatusBadRequest},
		{"not manager", "/businesses/1/bookings", bookings.ErrAccessDenied, http.StatusForbidden},
		{"no business", "/businesses/1/bookings", bookings.ErrBusinessNotFound, http.StatusNotFound},
		{"bad status", "/businesses/1/bookings?status=x", bookings.ErrInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.target)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
