package domain

import "time"

// TimeOff absolute unavailability window [StartAt, EndAt).
// May cross midnight and span several days.
type TimeOff struct {
	ID         int64
	BusinessID int64
	StaffID    *int64 // NULL = the whole business is closed
	StartAt    time.Time
	EndAt      time.Time
	Reason     *string
	CreatedBy  int64
	CreatedAt  time.Time
}

// TimeOffFilter выборка окон отсутствия, пересекающих период [From, To)
type TimeOffFilter struct {
	BusinessID int64
	StaffID    *int64 // nil - только окна бизнеса, иначе окна бизнеса и этого сотрудника
	AllStaff   bool   // окна всех сотрудников, StaffID игнорируется
	From       time.Time
	To         time.Time
}
