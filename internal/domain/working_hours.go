package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// WorkingHours weekly opening interval of a business or of one staff member.
// Scope hierarchy:
// 1. Staff-specific (business_id, staff_id)
// 2. Business-wide (business_id, NULL)
type WorkingHours struct {
	ID         int64
	BusinessID int64
	StaffID    *int64 // NULL = business-wide hours
	DayOfWeek  time.Weekday
	StartTime  types.TimeString
	EndTime    types.TimeString
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsBusinessWide returns true if the row applies to the whole business
func (w *WorkingHours) IsBusinessWide() bool {
	return w.StaffID == nil
}
