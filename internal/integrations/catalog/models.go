package catalog

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
)

// Business модель бизнеса из каталога
type Business struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Timezone   string  `json:"timezone"` // IANA, например "Europe/Moscow"
	ManagerIDs []int64 `json:"manager_ids"`
	StaffIDs   []int64 `json:"staff_ids"`
	IsActive   bool    `json:"is_active"`
}

// Location часовой пояс бизнеса, пустое значение - UTC.
// Неизвестный пояс - ErrInvalidTimezone.
func (b *Business) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, b.Timezone, err)
	}
	return loc, nil
}

// IsManager является ли userID менеджером бизнеса
func (b *Business) IsManager(userID int64) bool {
	return containsID(b.ManagerIDs, userID)
}

// HasStaff работает ли сотрудник в бизнесе
func (b *Business) HasStaff(staffID int64) bool {
	return containsID(b.StaffIDs, staffID)
}

// Service модель услуги из каталога
type Service struct {
	ID              int64           `json:"id"`
	BusinessID      int64           `json:"business_id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	StaffIDs        []int64         `json:"staff_ids"` // пусто - услугу оказывает любой сотрудник
	IsActive        bool            `json:"is_active"`
}

// ProvidedBy оказывает ли сотрудник эту услугу
func (s *Service) ProvidedBy(staffID int64) bool {
	return len(s.StaffIDs) == 0 || containsID(s.StaffIDs, staffID)
}

// Package модель пакета услуг из каталога
type Package struct {
	ID              int64           `json:"id"`
	BusinessID      int64           `json:"business_id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	IsActive        bool            `json:"is_active"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
