package domain

// Default booking policy values
const (
	DefaultPaymentWindowMinutes    = 15
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
)

// Business validation constants
const (
	MaxAdvanceBookingDays       = 365 // 1 year
	MaxBookingNoticeMinutes     = 10080
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxTimeOffReasonLength      = 255
	MaxTimeOffDays              = 366
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Cancellation reasons set by the system
const (
	ReasonPaymentExpired = "payment window expired"
)

// InactiveStatuses bookings in these statuses never occupy time
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}
