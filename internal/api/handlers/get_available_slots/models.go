package get_available_slots

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// SlotResponse один слот сетки
type SlotResponse struct {
	Time      string `json:"time"` // "09:30"
	Available bool   `json:"available"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string         `json:"date"`
	BusinessID      int64          `json:"businessId"`
	ServiceID       *int64         `json:"serviceId,omitempty"`
	PackageID       *int64         `json:"packageId,omitempty"`
	StaffID         *int64         `json:"staffId,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	Timezone        string         `json:"timezone"`
	Closed          bool           `json:"closed"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{Time: s.Time.String(), Available: s.Available})
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		PackageID:       resp.PackageID,
		StaffID:         resp.StaffID,
		DurationMinutes: resp.DurationMinutes,
		Timezone:        resp.Timezone,
		Closed:          resp.Closed,
		Slots:           slots,
	}
}
