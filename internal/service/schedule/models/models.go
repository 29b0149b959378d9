package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var (
	// ErrInvalidDay день недели вне диапазона 0..6
	ErrInvalidDay = errors.New("dayOfWeek must be between 0 (sunday) and 6 (saturday)")

	// ErrInvalidHours начало рабочего дня не раньше конца
	ErrInvalidHours = errors.New("startTime must be before endTime")

	// ErrInvalidPeriod начало окна не раньше конца
	ErrInvalidPeriod = errors.New("start must be before end")

	// ErrPeriodTooLong окно отсутствия длиннее допустимого
	ErrPeriodTooLong = errors.New("time off period is too long")

	// ErrReasonTooLong слишком длинная причина
	ErrReasonTooLong = errors.New("reason is too long")
)

// Request модели

// SetWorkingHoursRequest upsert рабочих часов одного дня недели
type SetWorkingHoursRequest struct {
	UserID     int64  `json:"-"`
	BusinessID int64  `json:"-"`
	StaffID    *int64 `json:"staffId,omitempty"` // nil - часы всего бизнеса
	DayOfWeek  int    `json:"dayOfWeek"`         // 0 - воскресенье
	StartTime  string `json:"startTime"`         // "09:00"
	EndTime    string `json:"endTime"`           // "18:00"
	IsActive   *bool  `json:"isActive,omitempty"`
}

// Validate проверяет день и интервал, возвращает разобранные время начала и конца
func (r *SetWorkingHoursRequest) Validate() (types.TimeString, types.TimeString, error) {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return "", "", ErrInvalidDay
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return "", "", fmt.Errorf("startTime: %w", err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return "", "", fmt.Errorf("endTime: %w", err)
	}
	if !start.IsBefore(end) {
		return "", "", ErrInvalidHours
	}

	return start, end, nil
}

// Active по умолчанию строка активна
func (r *SetWorkingHoursRequest) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

// CreateTimeOffRequest запрос на создание окна отсутствия
type CreateTimeOffRequest struct {
	UserID     int64     `json:"-"`
	BusinessID int64     `json:"-"`
	StaffID    *int64    `json:"staffId,omitempty"` // nil - закрыт весь бизнес
	StartAt    time.Time `json:"startAt"`           // RFC 3339
	EndAt      time.Time `json:"endAt"`
	Reason     *string   `json:"reason,omitempty"`
}

// Validate проверяет период и длину причины
func (r *CreateTimeOffRequest) Validate() error {
	if r.StartAt.IsZero() || r.EndAt.IsZero() || !r.StartAt.Before(r.EndAt) {
		return ErrInvalidPeriod
	}
	if r.EndAt.Sub(r.StartAt) > time.Duration(domain.MaxTimeOffDays)*24*time.Hour {
		return fmt.Errorf("%w: max %d days", ErrPeriodTooLong, domain.MaxTimeOffDays)
	}
	if r.Reason != nil && utf8.RuneCountInString(*r.Reason) > domain.MaxTimeOffReasonLength {
		return fmt.Errorf("%w: max %d characters", ErrReasonTooLong, domain.MaxTimeOffReasonLength)
	}
	return nil
}

// ToDomain конвертирует request в domain модель
func (r *CreateTimeOffRequest) ToDomain() *domain.TimeOff {
	return &domain.TimeOff{
		BusinessID: r.BusinessID,
		StaffID:    r.StaffID,
		StartAt:    r.StartAt.UTC(),
		EndAt:      r.EndAt.UTC(),
		Reason:     r.Reason,
		CreatedBy:  r.UserID,
	}
}

// ListTimeOffRequest окна отсутствия бизнеса за период [From, To)
type ListTimeOffRequest struct {
	UserID     int64
	BusinessID int64
	StaffID    *int64 // nil - окна бизнеса и всех сотрудников
	From       time.Time
	To         time.Time
}

// Response модели

// WorkingHoursResponse строка недельного расписания
type WorkingHoursResponse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessId"`
	StaffID    *int64    `json:"staffId,omitempty"`
	DayOfWeek  int       `json:"dayOfWeek"`
	Day        string    `json:"day"` // "monday"
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	IsActive   bool      `json:"isActive"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// WorkingHoursListResponse недельное расписание
type WorkingHoursListResponse struct {
	WorkingHours []WorkingHoursResponse `json:"workingHours"`
}

// TimeOffResponse окно отсутствия
type TimeOffResponse struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessId"`
	StaffID    *int64    `json:"staffId,omitempty"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Reason     *string   `json:"reason,omitempty"`
	CreatedBy  int64     `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TimeOffListResponse список окон отсутствия
type TimeOffListResponse struct {
	TimeOff []TimeOffResponse `json:"timeOff"`
}

// FromDomainWorkingHours конвертирует domain модель в DTO
func FromDomainWorkingHours(wh *domain.WorkingHours) *WorkingHoursResponse {
	if wh == nil {
		return nil
	}
	return &WorkingHoursResponse{
		ID:         wh.ID,
		BusinessID: wh.BusinessID,
		StaffID:    wh.StaffID,
		DayOfWeek:  int(wh.DayOfWeek),
		Day:        strings.ToLower(wh.DayOfWeek.String()),
		StartTime:  wh.StartTime.String(),
		EndTime:    wh.EndTime.String(),
		IsActive:   wh.IsActive,
		UpdatedAt:  wh.UpdatedAt,
	}
}

// FromDomainWorkingHoursList конвертирует список domain моделей в DTO
func FromDomainWorkingHoursList(rows []*domain.WorkingHours) *WorkingHoursListResponse {
	resp := &WorkingHoursListResponse{WorkingHours: make([]WorkingHoursResponse, 0, len(rows))}
	for _, row := range rows {
		if r := FromDomainWorkingHours(row); r != nil {
			resp.WorkingHours = append(resp.WorkingHours, *r)
		}
	}
	return resp
}

// FromDomainTimeOff конвертирует domain модель в DTO
func FromDomainTimeOff(t *domain.TimeOff) *TimeOffResponse {
	if t == nil {
		return nil
	}
	return &TimeOffResponse{
		ID:         t.ID,
		BusinessID: t.BusinessID,
		StaffID:    t.StaffID,
		StartAt:    t.StartAt,
		EndAt:      t.EndAt,
		Reason:     t.Reason,
		CreatedBy:  t.CreatedBy,
		CreatedAt:  t.CreatedAt,
	}
}

// FromDomainTimeOffList конвертирует список domain моделей в DTO
func FromDomainTimeOffList(windows []*domain.TimeOff) *TimeOffListResponse {
	resp := &TimeOffListResponse{TimeOff: make([]TimeOffResponse, 0, len(windows))}
	for _, w := range windows {
		if r := FromDomainTimeOff(w); r != nil {
			resp.TimeOff = append(resp.TimeOff, *r)
		}
	}
	return resp
}
