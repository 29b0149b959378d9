package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo   BookingRepository
	catalogClient CatalogClient
	publisher     EventPublisher
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	catalogClient CatalogClient,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		publisher:     publisher,
		metrics:       metrics,
		timeProvider:  realTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID.
// Видеть бронирование может его клиент или менеджер бизнеса.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings история бронирований клиента, опционально по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.CustomerID != req.UserID {
		s.logger.Warn("GetCustomerBookings: user=%d requested history of customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBusinessBookings бронирования бизнеса с фильтрацией.
// Доступно только менеджерам бизнеса.
//
// Примеры:
//   - расписание сотрудника на день: StaffID, StartDate = EndDate
//   - только ожидающие оплаты: Status = "pending_payment"
//   - включая отменённые: IncludeInactive = true
func (s *Service) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetBusinessBookings: fetching bookings for business=%d, user=%d", req.BusinessID, req.UserID)
	if req.StaffID != nil {
		logMsg += fmt.Sprintf(", staff=%d", *req.StaffID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if err := s.checkManagerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessBookings: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessBookings: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessBookings: fetched %d bookings for business=%d", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование. Клиент отменяет своё, менеджер любое в своём бизнесе.
// Отменённое бронирование сразу освобождает время.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(ctx, booking, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return nil, err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusChanged) {
			s.logger.Warn("Cancel: booking id=%d changed status concurrently", bookingID)
			return nil, ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	booking.Status = domain.StatusCancelled
	booking.PaymentExpiresAt = nil
	booking.CancelledAt = &now
	if req.CancellationReason != "" {
		reason := req.CancellationReason
		booking.CancellationReason = &reason
	}

	s.publish(ctx, events.TypeBookingCancelled, now, booking)

	s.logger.Info("Cancel: cancelled booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// Complete отмечает подтверждённое бронирование как оказанное. Только менеджер.
func (s *Service) Complete(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%d by user=%d", bookingID, userID)

	booking, err := s.getBooking(ctx, "Complete", bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, booking.BusinessID, userID); err != nil {
		return nil, err
	}

	if !booking.CanTransitionTo(domain.StatusCompleted) {
		s.logger.Warn("Complete: booking id=%d has status=%s", bookingID, booking.Status)
		return nil, ErrCannotComplete
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusConfirmed, domain.StatusCompleted); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusChanged) {
			return nil, ErrCannotComplete
		}
		s.logger.Error("Complete: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCompleted
	s.publish(ctx, events.TypeBookingCompleted, s.timeProvider.Now(), booking)

	s.logger.Info("Complete: completed booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// ConfirmPayment переводит pending_payment в confirmed после успешной оплаты.
// Вызывается платёжным контуром, права пользователя не проверяются.
func (s *Service) ConfirmPayment(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("ConfirmPayment: confirming booking id=%d", bookingID)

	booking, err := s.getBooking(ctx, "ConfirmPayment", bookingID)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()

	if booking.Status != domain.StatusPendingPayment {
		s.logger.Warn("ConfirmPayment: booking id=%d has status=%s", bookingID, booking.Status)
		return nil, ErrCannotConfirm
	}
	// Окно закрылось: слот мог уже достаться другому клиенту
	if booking.IsPaymentExpired(now) {
		s.logger.Warn("ConfirmPayment: payment window of booking id=%d expired at %s",
			bookingID, booking.PaymentExpiresAt.Format(time.RFC3339))
		return nil, ErrPaymentExpired
	}

	// Окно проверяется ещё раз в самом UPDATE: между чтением и записью оно могло закрыться
	if err := s.bookingRepo.ConfirmPayment(ctx, bookingID, now); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusChanged) {
			return nil, s.confirmRejected(ctx, bookingID)
		}
		s.logger.Error("ConfirmPayment: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusConfirmed
	booking.PaymentExpiresAt = nil
	s.publish(ctx, events.TypeBookingConfirmed, now, booking)

	s.logger.Info("ConfirmPayment: confirmed booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// confirmRejected определяет, почему подтверждение не прошло
func (s *Service) confirmRejected(ctx context.Context, bookingID int64) error {
	current, err := s.getBooking(ctx, "ConfirmPayment", bookingID)
	if err != nil {
		return err
	}

	expired := current.Status == domain.StatusPendingPayment ||
		(current.Status == domain.StatusCancelled &&
			current.CancellationReason != nil && *current.CancellationReason == domain.ReasonPaymentExpired)
	if expired {
		s.logger.Warn("ConfirmPayment: payment window of booking id=%d closed before confirmation", bookingID)
		return ErrPaymentExpired
	}

	s.logger.Warn("ConfirmPayment: booking id=%d changed status to %s concurrently", bookingID, current.Status)
	return ErrCannotConfirm
}

// ExpirePending отменяет все бронирования с истёкшим окном оплаты.
// Возвращает количество отменённых.
func (s *Service) ExpirePending(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()

	expired, err := s.bookingRepo.ExpirePending(ctx, now)
	if err != nil {
		s.logger.Error("ExpirePending: repository error: %v", err)
		return 0, fmt.Errorf("%w: ExpirePending - repository error: %v", ErrInternal, err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	if s.metrics != nil {
		s.metrics.AddBookingsExpired(int64(len(expired)))
	}

	s.publish(ctx, events.TypeBookingExpired, now, expired...)

	s.logger.Info("ExpirePending: expired %d pending bookings", len(expired))
	return len(expired), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// publish ошибки публикации не откатывают изменение статуса
func (s *Service) publish(ctx context.Context, eventType string, at time.Time, bookings ...*domain.Booking) {
	if s.publisher == nil {
		return
	}

	evs := make([]events.BookingEvent, 0, len(bookings))
	for _, b := range bookings {
		evs = append(evs, events.NewBookingEvent(eventType, b, at))
	}

	if err := s.publisher.Publish(ctx, evs...); err != nil {
		s.logger.Warn("publish: failed to publish %d %s events: %v", len(evs), eventType, err)
	}
}

// checkUserAccess клиент бронирования или менеджер бизнеса
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.CustomerID == userID {
		return nil
	}

	if err := s.checkManagerAccess(ctx, booking.BusinessID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером бизнеса
func (s *Service) checkManagerAccess(ctx context.Context, businessID int64, userID int64) error {
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

	return nil
}
