package delete_working_hours

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidDay        = "день недели должен быть от 0 (воскресенье) до 6"
	msgInvalidStaffID    = "некорректный ID сотрудника"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "рабочие часы не найдены"
	msgStaffNotFound     = "сотрудник не найден"
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

// Handle DELETE /api/v1/businesses/{businessId}/working-hours/{day}?staffId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	day, err := strconv.Atoi(mux.Vars(r)["day"])
	if err != nil || day < 0 || day > 6 {
		handlers.RespondBadRequest(w, msgInvalidDay)
		return
	}

	staffID, err := handlers.QueryInt64(r, "staffId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.service.DeleteWorkingHours(r.Context(), businessID, staffID, time.Weekday(day), userID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrWorkingHoursNotFound), errors.Is(err, schedule.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedule.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/working-hours/{day} - Failed: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/working-hours/{day} - Deleted: business_id=%d, day=%d", businessID, day)
	w.WriteHeader(http.StatusNoContent)
}
