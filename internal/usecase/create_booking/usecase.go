package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/events"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/lock"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalog"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	workingHoursRepo WorkingHoursRepository
	timeOffRepo      TimeOffRepository
	catalogClient    CatalogClient
	txManager        TransactionManager
	locker           Locker
	publisher        EventPublisher
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
	txManager TransactionManager,
	locker Locker,
	publisher EventPublisher,
	policy domain.BookingPolicy,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		workingHoursRepo: workingHoursRepo,
		timeOffRepo:      timeOffRepo,
		catalogClient:    catalogClient,
		txManager:        txManager,
		locker:           locker,
		publisher:        publisher,
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

// offering то, на что записывается клиент: услуга или пакет
type offering struct {
	name            string
	durationMinutes int
	price           decimal.Decimal
	currency        string
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка выполняются под блокировкой ключа
// (бизнес, сотрудник, дата) в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: customer=%d, business=%d, staff=%v, date=%s, time=%s",
		req.CustomerID, req.BusinessID, derefID(req.StaffID), req.Date.Format(domain.DateFormat), req.StartTime)

	now := uc.timeProvider.Now()

	// 2. Бизнес
	business, err := uc.catalogClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, catalog.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		return nil, ErrBusinessNotFound
	}

	if req.StaffID != nil && !business.HasStaff(*req.StaffID) {
		uc.logger.Warn("CreateBooking: staff id=%d not in business id=%d", *req.StaffID, req.BusinessID)
		return nil, ErrStaffNotFound
	}

	// 3. Длительность и цена только из каталога
	offer, err := uc.resolveOffering(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Дата и время в часовом поясе бизнеса
	loc, err := business.Location()
	if err != nil {
		uc.logger.Error("CreateBooking: business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	y, m, d := req.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)

	if err := validateDate(day, now, uc.policy); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	requested, err := availability.NewIntervalWithDuration(req.StartTime, offer.durationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: %s + %d min does not fit the day: %v", req.StartTime, offer.durationMinutes, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	startAt, err := req.StartTime.OnDate(day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validateBookingTime(startAt, now, uc.policy); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	endTime, err := req.StartTime.AddMinutes(offer.durationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	// 5. Рабочие часы и окна отсутствия
	if err := uc.checkSchedule(ctx, req, day, requested); err != nil {
		return nil, err
	}

	// 6. Критическая секция по ключу записи
	key := lock.SchedulingKey(req.BusinessID, req.StaffID, day)
	unlock, err := uc.locker.Lock(ctx, key)
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			uc.logger.Warn("CreateBooking: lock %s is busy", key)
			return nil, ErrSlotBusy
		}
		uc.logger.Error("CreateBooking: failed to lock %s: %v", key, err)
		return nil, fmt.Errorf("%w: failed to lock: %v", ErrInternal, err)
	}
	defer unlock()

	booking := &domain.Booking{
		CustomerID:      req.CustomerID,
		BusinessID:      req.BusinessID,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		PackageID:       req.PackageID,
		BookingDate:     day,
		StartTime:       req.StartTime,
		EndTime:         endTime,
		DurationMinutes: offer.durationMinutes,
		ServiceName:     offer.name,
		Price:           offer.price,
		Currency:        offer.currency,
		Notes:           req.Notes,
	}

	// Бесплатная запись подтверждается сразу, платная держит слот на время оплаты
	if offer.price.IsPositive() {
		booking.Status = domain.StatusPendingPayment
		expiresAt := now.Add(uc.policy.PaymentWindow)
		booking.PaymentExpiresAt = &expiresAt
	} else {
		booking.Status = domain.StatusConfirmed
	}

	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Занятое время на дату с блокировкой строк (FOR UPDATE)
		existing, err := uc.bookingRepo.GetOccupying(txCtx, domain.OccupyingFilter{
			BusinessID: req.BusinessID,
			StaffID:    req.StaffID,
			Date:       day,
			Now:        now,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		occupied, err := availability.OccupiedIntervals(existing, now)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		// 6.2. Повторная проверка на запись: слот мог быть занят после чтения сетки
		if availability.HasConflict(requested, occupied) {
			return ErrSlotConflict
		}

		// 6.3. Вставка. Копия, чтобы повтор транзакции не видел ID прошлой попытки
		toCreate := *booking
		created, err = uc.bookingRepo.Create(txCtx, &toCreate)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotConflict), errors.Is(err, txmanager.ErrSerialization):
			uc.logger.Warn("CreateBooking: slot %s %s-%s is no longer available for business=%d: %v",
				day.Format(domain.DateFormat), req.StartTime, endTime, req.BusinessID, err)
			if uc.metrics != nil {
				uc.metrics.IncBookingConflict()
			}
			return nil, ErrSlotConflict
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			if errors.Is(err, ErrInternal) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("CreateBooking: created booking id=%d status=%s", created.ID, created.Status)

	if uc.metrics != nil {
		uc.metrics.IncBookingCreated(string(created.Status))
	}

	// 7. Событие после коммита, ошибка публикации не отменяет запись
	if uc.publisher != nil {
		event := events.NewBookingEvent(events.TypeBookingCreated, created, now)
		if err := uc.publisher.Publish(ctx, event); err != nil {
			uc.logger.Warn("CreateBooking: failed to publish %s for booking id=%d: %v", event.Type, created.ID, err)
		}
	}

	return &Response{Booking: created}, nil
}

// checkSchedule запись целиком внутри рабочих часов и не задевает окна отсутствия
func (uc *UseCase) checkSchedule(ctx context.Context, req *Request, day time.Time, requested availability.Interval) error {
	rows, err := uc.workingHoursRepo.ListForDay(ctx, req.BusinessID, req.StaffID, day.Weekday())
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get working hours: %v", err)
		return fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	workingHours, err := availability.ResolveWorkingHours(availability.FromWorkingHours(rows), req.StaffID, day.Weekday())
	if err != nil {
		return fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}
	if workingHours == nil {
		uc.logger.Warn("CreateBooking: business=%d is closed on %s", req.BusinessID, day.Format(domain.DateFormat))
		return ErrBusinessClosed
	}
	if !workingHours.Contains(requested) {
		uc.logger.Warn("CreateBooking: %s is outside working hours %s", requested, workingHours)
		return ErrOutsideWorkingHours
	}

	windows, err := uc.timeOffRepo.ListOverlapping(ctx, domain.TimeOffFilter{
		BusinessID: req.BusinessID,
		StaffID:    req.StaffID,
		From:       day,
		To:         day.AddDate(0, 0, 1),
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get time off: %v", err)
		return fmt.Errorf("%w: failed to get time off: %v", ErrInternal, err)
	}

	if availability.HasConflict(requested, availability.BlockedIntervals(availability.FromTimeOff(windows), req.StaffID, day)) {
		uc.logger.Warn("CreateBooking: %s is blocked by time off", requested)
		return ErrSlotBlocked
	}

	return nil
}

func (uc *UseCase) resolveOffering(ctx context.Context, req *Request) (*offering, error) {
	if req.PackageID != nil {
		pkg, err := uc.catalogClient.GetPackage(ctx, req.BusinessID, *req.PackageID)
		if err != nil {
			if errors.Is(err, catalog.ErrPackageNotFound) {
				uc.logger.Warn("CreateBooking: package id=%d not found", *req.PackageID)
				return nil, ErrPackageNotFound
			}
			uc.logger.Error("CreateBooking: failed to get package id=%d: %v", *req.PackageID, err)
			return nil, fmt.Errorf("%w: failed to get package: %v", ErrInternal, err)
		}
		if !pkg.IsActive || pkg.BusinessID != req.BusinessID {
			return nil, ErrPackageNotFound
		}
		return &offering{
			name:            pkg.Name,
			durationMinutes: pkg.DurationMinutes,
			price:           pkg.Price,
			currency:        pkg.Currency,
		}, nil
	}

	service, err := uc.catalogClient.GetService(ctx, req.BusinessID, *req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", *req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", *req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive || service.BusinessID != req.BusinessID {
		return nil, ErrServiceNotFound
	}
	if req.StaffID != nil && !service.ProvidedBy(*req.StaffID) {
		return nil, ErrStaffDoesNotProvideService
	}

	return &offering{
		name:            service.Name,
		durationMinutes: service.DurationMinutes,
		price:           service.Price,
		currency:        service.Currency,
	}, nil
}

func derefID(v *int64) interface{} {
	if v == nil {
		return "-"
	}
	return *v
}
