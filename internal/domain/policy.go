package domain

import "time"

// BookingPolicy правила записи, общие для всех бизнесов инстанса
type BookingPolicy struct {
	PaymentWindow           time.Duration // сколько pending_payment держит слот
	AdvanceBookingDays      int           // 0 - без ограничения
	MinBookingNoticeMinutes int
}

// DefaultBookingPolicy значения по умолчанию
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		PaymentWindow:           DefaultPaymentWindowMinutes * time.Minute,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// EarliestStart самый ранний допустимый момент начала записи
func (p BookingPolicy) EarliestStart(now time.Time) time.Time {
	return now.Add(time.Duration(p.MinBookingNoticeMinutes) * time.Minute)
}

// LastBookableDate последняя дата, на которую можно записаться, в часовом поясе loc.
// ok=false - горизонт не ограничен.
func (p BookingPolicy) LastBookableDate(now time.Time, loc *time.Location) (time.Time, bool) {
	if p.AdvanceBookingDays <= 0 {
		return time.Time{}, false
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return today.AddDate(0, 0, p.AdvanceBookingDays), true
}
