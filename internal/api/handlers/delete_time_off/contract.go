package delete_time_off

import "context"

type ScheduleService interface {
	DeleteTimeOff(ctx context.Context, businessID, timeOffID, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
