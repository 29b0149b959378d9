package delete_time_off

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidTimeOffID  = "некорректный ID окна отсутствия"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "окно отсутствия не найдено"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/businesses/{businessId}/time-off/{timeOffId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	timeOffID, err := handlers.PathInt64(r, "timeOffId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTimeOffID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteTimeOff(r.Context(), businessID, timeOffID, userID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrTimeOffNotFound), errors.Is(err, schedule.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/time-off/{id} - Failed: id=%d, error=%v", timeOffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/time-off/{id} - Deleted: business_id=%d, id=%d", businessID, timeOffID)
	w.WriteHeader(http.StatusNoContent)
}
