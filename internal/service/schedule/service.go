package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	timeOffRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/timeoff"
	workingHoursRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/workinghours"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedule/models"
)

// Service управление недельным расписанием и окнами отсутствия
type Service struct {
	workingHoursRepo WorkingHoursRepository
	timeOffRepo      TimeOffRepository
	catalogClient    CatalogClient
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	workingHoursRepo WorkingHoursRepository,
	timeOffRepo TimeOffRepository,
	catalogClient CatalogClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		workingHoursRepo: workingHoursRepo,
		timeOffRepo:      timeOffRepo,
		catalogClient:    catalogClient,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetWorkingHours недельное расписание бизнеса или сотрудника. Публичный метод.
func (s *Service) GetWorkingHours(ctx context.Context, businessID int64, staffID *int64) (*models.WorkingHoursListResponse, error) {
	s.logger.Info("GetWorkingHours: fetching working hours for business=%d, staff=%v", businessID, staffID)

	rows, err := s.workingHoursRepo.ListByBusiness(ctx, businessID, staffID)
	if err != nil {
		s.logger.Error("GetWorkingHours: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetWorkingHours - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWorkingHoursList(rows), nil
}

// SetWorkingHours создаёт или обновляет рабочие часы одного дня недели.
// Доступно только менеджерам бизнеса.
func (s *Service) SetWorkingHours(ctx context.Context, req *models.SetWorkingHoursRequest) (*models.WorkingHoursResponse, error) {
	s.logger.Info("SetWorkingHours: business=%d, staff=%v, day=%d, %s-%s by user=%d",
		req.BusinessID, req.StaffID, req.DayOfWeek, req.StartTime, req.EndTime, req.UserID)

	start, end, err := req.Validate()
	if err != nil {
		s.logger.Warn("SetWorkingHours: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkManagerAccess(ctx, req.BusinessID, req.StaffID, req.UserID); err != nil {
		return nil, err
	}

	day := time.Weekday(req.DayOfWeek)
	var saved *domain.WorkingHours

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.workingHoursRepo.GetByScopeAndDay(ctx, req.BusinessID, req.StaffID, day)
		if err != nil && !errors.Is(err, workingHoursRepo.ErrWorkingHoursNotFound) {
			return err
		}

		if existing != nil {
			existing.StartTime = start
			existing.EndTime = end
			existing.IsActive = req.Active()
			saved, err = s.workingHoursRepo.Update(ctx, existing)
			return err
		}

		saved, err = s.workingHoursRepo.Create(ctx, &domain.WorkingHours{
			BusinessID: req.BusinessID,
			StaffID:    req.StaffID,
			DayOfWeek:  day,
			StartTime:  start,
			EndTime:    end,
			IsActive:   req.Active(),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, workingHoursRepo.ErrDuplicateWorkingHours) || errors.Is(err, workingHoursRepo.ErrWorkingHoursNotFound) {
			s.logger.Warn("SetWorkingHours: concurrent update for business=%d, day=%d", req.BusinessID, req.DayOfWeek)
			return nil, ErrConcurrentUpdate
		}
		s.logger.Error("SetWorkingHours: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: SetWorkingHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetWorkingHours: saved working hours id=%d", saved.ID)
	return models.FromDomainWorkingHours(saved), nil
}

// DeleteWorkingHours удаляет рабочие часы дня. Для сотрудника после удаления
// действуют часы бизнеса, для бизнеса день становится выходным.
func (s *Service) DeleteWorkingHours(ctx context.Context, businessID int64, staffID *int64, day time.Weekday, userID int64) error {
	s.logger.Info("DeleteWorkingHours: business=%d, staff=%v, day=%s by user=%d", businessID, staffID, day, userID)

	if day < time.Sunday || day > time.Saturday {
		return fmt.Errorf("%w: %v", ErrInvalidInput, models.ErrInvalidDay)
	}

	if err := s.checkManagerAccess(ctx, businessID, staffID, userID); err != nil {
		return err
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.workingHoursRepo.GetByScopeAndDay(ctx, businessID, staffID, day)
		if err != nil {
			return err
		}
		return s.workingHoursRepo.Delete(ctx, existing.ID)
	})
	if err != nil {
		if errors.Is(err, workingHoursRepo.ErrWorkingHoursNotFound) {
			return ErrWorkingHoursNotFound
		}
		s.logger.Error("DeleteWorkingHours: repository error for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: DeleteWorkingHours - repository error: %v", ErrInternal, err)
	}

	return nil
}

// ListTimeOff окна отсутствия за период. Только менеджер.
func (s *Service) ListTimeOff(ctx context.Context, req *models.ListTimeOffRequest) (*models.TimeOffListResponse, error) {
	s.logger.Info("ListTimeOff: business=%d, staff=%v, period=%s to %s",
		req.BusinessID, req.StaffID, req.From.Format(time.RFC3339), req.To.Format(time.RFC3339))

	if !req.From.Before(req.To) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, models.ErrInvalidPeriod)
	}

	if err := s.checkManagerAccess(ctx, req.BusinessID, req.StaffID, req.UserID); err != nil {
		return nil, err
	}

	windows, err := s.timeOffRepo.ListOverlapping(ctx, domain.TimeOffFilter{
		BusinessID: req.BusinessID,
		StaffID:    req.StaffID,
		AllStaff:   req.StaffID == nil,
		From:       req.From,
		To:         req.To,
	})
	if err != nil {
		s.logger.Error("ListTimeOff: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListTimeOff - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTimeOffList(windows), nil
}

// CreateTimeOff создаёт окно отсутствия бизнеса или сотрудника. Только менеджер.
// Уже существующие бронирования в окне не отменяются.
func (s *Service) CreateTimeOff(ctx context.Context, req *models.CreateTimeOffRequest) (*models.TimeOffResponse, error) {
	s.logger.Info("CreateTimeOff: business=%d, staff=%v by user=%d", req.BusinessID, req.StaffID, req.UserID)

	if err := req.Validate(); err != nil {
		s.logger.Warn("CreateTimeOff: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkManagerAccess(ctx, req.BusinessID, req.StaffID, req.UserID); err != nil {
		return nil, err
	}

	created, err := s.timeOffRepo.Create(ctx, req.ToDomain())
	if err != nil {
		s.logger.Error("CreateTimeOff: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: CreateTimeOff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateTimeOff: created time off id=%d", created.ID)
	return models.FromDomainTimeOff(created), nil
}

// DeleteTimeOff удаляет окно отсутствия. Только менеджер.
func (s *Service) DeleteTimeOff(ctx context.Context, businessID, timeOffID, userID int64) error {
	s.logger.Info("DeleteTimeOff: business=%d, id=%d by user=%d", businessID, timeOffID, userID)

	if err := s.checkManagerAccess(ctx, businessID, nil, userID); err != nil {
		return err
	}

	if err := s.timeOffRepo.Delete(ctx, businessID, timeOffID); err != nil {
		if errors.Is(err, timeOffRepo.ErrTimeOffNotFound) {
			s.logger.Warn("DeleteTimeOff: time off id=%d not found in business=%d", timeOffID, businessID)
			return ErrTimeOffNotFound
		}
		s.logger.Error("DeleteTimeOff: repository error for id=%d: %v", timeOffID, err)
		return fmt.Errorf("%w: DeleteTimeOff - repository error: %v", ErrInternal, err)
	}

	return nil
}

// checkManagerAccess пользователь - менеджер бизнеса, сотрудник (если указан) работает в нём
func (s *Service) checkManagerAccess(ctx context.Context, businessID int64, staffID *int64, userID int64) error {
	business, err := s.catalogClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, catalog.ErrBusinessNotFound) {
			s.logger.Warn("checkManagerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(userID) {
		s.logger.Warn("checkManagerAccess: user=%d is not a manager of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	if staffID != nil && !business.HasStaff(*staffID) {
		s.logger.Warn("checkManagerAccess: staff id=%d not in business=%d", *staffID, businessID)
		return ErrStaffNotFound
	}

	return nil
}
