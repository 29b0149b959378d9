package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalog"
)

// UseCase use case для получения сетки слотов на дату
type UseCase struct {
	bookingRepo      BookingRepository
	workingHoursRepo WorkingHoursRepository
	timeOffRepo      TimeOffRepository
	catalogClient    CatalogClient
	policy           domain.BookingPolicy
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	workingHoursRepo WorkingHoursRepository,
	timeOffRepo TimeOffRepository,
	catalogClient CatalogClient,
	policy domain.BookingPolicy,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		workingHoursRepo: workingHoursRepo,
		timeOffRepo:      timeOffRepo,
		catalogClient:    catalogClient,
		policy:           policy,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: business=%d, service=%v, package=%v, staff=%v, date=%s",
		req.BusinessID, deref(req.ServiceID), deref(req.PackageID), deref(req.StaffID), req.Date.Format(domain.DateFormat))

	now := uc.timeProvider.Now()

	// 2. Бизнес и его часовой пояс
	business, err := uc.catalogClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, catalog.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		uc.logger.Warn("GetAvailableSlots: business id=%d is inactive", req.BusinessID)
		return nil, ErrBusinessNotFound
	}

	if req.StaffID != nil && !business.HasStaff(*req.StaffID) {
		uc.logger.Warn("GetAvailableSlots: staff id=%d not in business id=%d", *req.StaffID, req.BusinessID)
		return nil, ErrStaffNotFound
	}

	// 3. Длительность берётся только из каталога
	durationMinutes, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Дата в часовом поясе бизнеса
	loc, err := business.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	day := localDay(req.Date, loc)

	if err := validateDate(day, now, uc.policy); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:            day,
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		PackageID:       req.PackageID,
		StaffID:         req.StaffID,
		DurationMinutes: durationMinutes,
		Timezone:        loc.String(),
		Slots:           []availability.Slot{},
	}

	// 5. Рабочие часы: сотрудника, иначе бизнеса
	rows, err := uc.workingHoursRepo.ListForDay(ctx, req.BusinessID, req.StaffID, day.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get working hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	workingHours, err := availability.ResolveWorkingHours(availability.FromWorkingHours(rows), req.StaffID, day.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid working hours for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}
	if workingHours == nil {
		uc.logger.Info("GetAvailableSlots: business=%d is closed on %s", req.BusinessID, day.Format(domain.DateFormat))
		response.Closed = true
		return response, nil
	}

	// 6. Занятое время
	bookings, err := uc.bookingRepo.GetOccupying(ctx, domain.OccupyingFilter{
		BusinessID: req.BusinessID,
		StaffID:    req.StaffID,
		Date:       day,
		Now:        now,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	occupied, err := availability.OccupiedIntervals(bookings, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: broken booking row: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 7. Окна отсутствия, обрезанные по дате
	windows, err := uc.timeOffRepo.ListOverlapping(ctx, domain.TimeOffFilter{
		BusinessID: req.BusinessID,
		StaffID:    req.StaffID,
		From:       day,
		To:         day.AddDate(0, 0, 1),
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get time off: %v", err)
		return nil, fmt.Errorf("%w: failed to get time off: %v", ErrInternal, err)
	}

	// 8. Сетка слотов
	slots, err := availability.GenerateSlots(availability.SlotRequest{
		WorkingHours:    workingHours,
		DurationMinutes: durationMinutes,
		Occupied:        occupied,
		TimeOff:         availability.BlockedIntervals(availability.FromTimeOff(windows), req.StaffID, day),
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	if err := closeBeforeEarliest(slots, day, uc.policy.EarliestStart(now)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	available := availability.CountAvailable(slots)
	if uc.metrics != nil {
		uc.metrics.ObserveSlots(len(slots), available)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots (%d available) for business=%d, date=%s",
		len(slots), available, req.BusinessID, day.Format(domain.DateFormat))

	response.Slots = slots
	return response, nil
}

// resolveDuration длительность услуги или пакета.
// Для сотрудника дополнительно проверяется, что он оказывает услугу.
func (uc *UseCase) resolveDuration(ctx context.Context, req *Request) (int, error) {
	if req.PackageID != nil {
		pkg, err := uc.catalogClient.GetPackage(ctx, req.BusinessID, *req.PackageID)
		if err != nil {
			if errors.Is(err, catalog.ErrPackageNotFound) {
				uc.logger.Warn("GetAvailableSlots: package id=%d not found", *req.PackageID)
				return 0, ErrPackageNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get package id=%d: %v", *req.PackageID, err)
			return 0, fmt.Errorf("%w: failed to get package: %v", ErrInternal, err)
		}
		if !pkg.IsActive || pkg.BusinessID != req.BusinessID {
			return 0, ErrPackageNotFound
		}
		return pkg.DurationMinutes, nil
	}

	service, err := uc.catalogClient.GetService(ctx, req.BusinessID, *req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", *req.ServiceID)
			return 0, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
		return 0, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive || service.BusinessID != req.BusinessID {
		return 0, ErrServiceNotFound
	}
	if req.StaffID != nil && !service.ProvidedBy(*req.StaffID) {
		uc.logger.Warn("GetAvailableSlots: staff id=%d does not provide service id=%d", *req.StaffID, service.ID)
		return 0, ErrStaffDoesNotProvideService
	}

	return service.DurationMinutes, nil
}

func deref(v *int64) interface{} {
	if v == nil {
		return "-"
	}
	return *v
}
