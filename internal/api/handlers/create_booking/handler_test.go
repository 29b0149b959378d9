package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type fakeUseCase struct {
	req *createBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &createBooking.Response{Booking: &domain.Booking{
		ID:              1,
		CustomerID:      req.CustomerID,
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		BookingDate:     req.Date,
		StartTime:       req.StartTime,
		EndTime:         types.TimeString("11:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		Price:           decimal.Zero,
		Currency:        "RUB",
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}}, nil
}

func post(uc *fakeUseCase, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

const validBody = `{"businessId":1,"serviceId":11,"bookingDate":"2025-01-15","startTime":"10:00"}`

func TestHandler_Created(t *testing.T) {
	uc := &fakeUseCase{}
	rec := post(uc, validBody, 100)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.req)
	assert.Equal(t, int64(100), uc.req.CustomerID)
	assert.Equal(t, types.TimeString("10:00"), uc.req.StartTime)

	var body models.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "confirmed", body.Status)
	assert.Equal(t, "0.00", body.Price)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		userID int64
		err    error
		status int
	}{
		{"no user", validBody, 0, nil, http.StatusUnauthorized},
		{"bad json", `{"businessId":`, 100, nil, http.StatusBadRequest},
		{"bad date", `{"businessId":1,"serviceId":11,"bookingDate":"15.01.2025","startTime":"10:00"}`, 100, nil, http.StatusBadRequest},
		{"bad time", `{"businessId":1,"serviceId":11,"bookingDate":"2025-01-15","startTime":"25:00"}`, 100, nil, http.StatusBadRequest},
		{"conflict", validBody, 100, createBooking.ErrSlotConflict, http.StatusConflict},
		{"busy", validBody, 100, createBooking.ErrSlotBusy, http.StatusConflict},
		{"blocked", validBody, 100, createBooking.ErrSlotBlocked, http.StatusConflict},
		{"business not found", validBody, 100, createBooking.ErrBusinessNotFound, http.StatusNotFound},
		{"outside hours", validBody, 100, createBooking.ErrOutsideWorkingHours, http.StatusBadRequest},
		{"internal", validBody, 100, createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(&fakeUseCase{err: tt.err}, tt.body, tt.userID)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
