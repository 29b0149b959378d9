package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgCannotConfirm    = "бронирование не ожидает оплаты"
	msgPaymentExpired   = "время на оплату истекло"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /internal/bookings/{bookingId}/confirm-payment
// Вызывается платёжным контуром после успешной оплаты.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.ConfirmPayment(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrPaymentExpired):
			h.logger.Warn("POST /internal/bookings/{id}/confirm-payment - Payment window expired: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgPaymentExpired)

		case errors.Is(err, bookings.ErrCannotConfirm):
			handlers.RespondConflict(w, msgCannotConfirm)

		default:
			h.logger.Error("POST /internal/bookings/{id}/confirm-payment - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /internal/bookings/{id}/confirm-payment - Booking confirmed: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
