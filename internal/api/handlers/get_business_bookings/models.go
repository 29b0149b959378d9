package get_business_bookings

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// parseFilter разбирает query: staffId, date или startDate/endDate, status, includeInactive
func parseFilter(r *http.Request, req *models.GetBusinessBookingsRequest) error {
	var err error

	if req.StaffID, err = handlers.QueryInt64(r, "staffId"); err != nil {
		return err
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		return err
	}
	if date != nil {
		// одна дата - период из одного дня
		req.StartDate, req.EndDate = date, date
	} else {
		if req.StartDate, err = handlers.QueryDate(r, "startDate"); err != nil {
			return err
		}
		if req.EndDate, err = handlers.QueryDate(r, "endDate"); err != nil {
			return err
		}
	}

	req.Status = handlers.QueryString(r, "status")

	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		if req.IncludeInactive, err = strconv.ParseBool(raw); err != nil {
			return err
		}
	}

	return nil
}
