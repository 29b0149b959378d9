package delete_working_hours

import (
	"context"
	"time"
)

type ScheduleService interface {
	DeleteWorkingHours(ctx context.Context, businessID int64, staffID *int64, day time.Weekday, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
