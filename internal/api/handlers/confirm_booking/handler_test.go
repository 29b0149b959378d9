package confirm_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct{ err error }

func (f fakeService) ConfirmPayment(_ context.Context, id int64) (*models.BookingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id, Status: "confirmed"}, nil
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"confirmed", nil, http.StatusOK},
		{"expired", bookings.ErrPaymentExpired, http.StatusConflict},
		{"not pending", bookings.ErrCannotConfirm, http.StatusConflict},
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mux.NewRouter()
			r.HandleFunc("/internal/bookings/{bookingId}/confirm-payment", NewHandler(fakeService{err: tt.err}, logger.NewNop()).Handle)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal/bookings/4/confirm-payment", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
