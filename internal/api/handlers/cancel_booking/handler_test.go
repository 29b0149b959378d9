package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
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
	req *models.CancelBookingRequest
	err error
}

func (f *fakeService) Cancel(_ context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: bookingID, Status: "cancelled"}, nil
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/bookings/{bookingId}/cancel", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodPatch, "/bookings/3/cancel", strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "100")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_WithReason(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, `{"cancellationReason":"sick"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.req)
	assert.Equal(t, int64(100), svc.req.UserID)
	assert.Equal(t, "sick", svc.req.CancellationReason)
}

func TestHandler_EmptyBody(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.req)
	assert.Empty(t, svc.req.CancellationReason)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{bookings.ErrBookingNotFound, http.StatusNotFound},
		{bookings.ErrAccessDenied, http.StatusForbidden},
		{bookings.ErrCannotCancel, http.StatusConflict},
		{bookings.ErrInvalidInput, http.StatusBadRequest},
		{bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
