package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_booking"
	createTimeOffHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_time_off"
	deleteTimeOffHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_time_off"
	deleteWorkingHoursHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_working_hours"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking"
	getBusinessBookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_business_bookings"
	getCustomerBookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_customer_bookings"
	getTimeOffHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_time_off"
	getWorkingHoursHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_working_hours"
	setWorkingHoursHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/set_working_hours"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/events"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	timeOffRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/timeoff"
	workingHoursRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/workinghours"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalog"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-SchedulingService/internal/service/schedule"
	createBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SchedulingService/internal/worker/expiry"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

const poolStatsInterval = 15 * time.Second

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики. При выключенных метриках nil-коллектор ничего не пишет
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.Wrap(db, metricsCollector)
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		go wrappedDB.CollectPoolStats(poolStatsInterval, stopMetricsCh)
	}

	txManager := txmanager.New(wrappedDB,
		txmanager.WithMaxAttempts(uint(cfg.Booking.TxMaxAttempts)),
		txmanager.WithRetryObserver(metricsCollector),
	)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	workingHoursRepository := workingHoursRepo.NewRepository(wrappedDB)
	timeOffRepository := timeOffRepo.NewRepository(wrappedDB)

	// Каталог бизнесов и услуг
	catalogClient := catalog.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		catalog.RetryPolicy{
			MaxAttempts:     uint(cfg.CatalogService.RetryMaxAttempts),
			InitialInterval: time.Duration(cfg.CatalogService.RetryInitialIntervalMs) * time.Millisecond,
			MaxInterval:     2 * time.Second,
		},
		log,
	)
	log.Info("Catalog client initialized (url=%s, timeout=%ds, attempts=%d)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.CatalogService.RetryMaxAttempts)

	// Блокировка записи: Redis между инстансами, иначе в пределах процесса
	lockWait := time.Duration(cfg.Redis.LockWaitMs) * time.Millisecond
	var locker lock.Locker
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		cancelPing()

		locker = lock.NewRedisLocker(rdb, time.Duration(cfg.Redis.LockTTLMs)*time.Millisecond, lockWait, log)
		log.Info("Redis scheduling lock enabled (addr=%s)", cfg.Redis.Addr)
	} else {
		locker = lock.NewLocalLocker(lockWait)
		log.Warn("Redis disabled, scheduling lock is process-local")
	}

	// События бронирований
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("Kafka publisher enabled (topic=%s)", cfg.Kafka.Topic)
	}
	defer publisher.Close()

	policy := domain.BookingPolicy{
		PaymentWindow:           time.Duration(cfg.Booking.PaymentWindowMinutes) * time.Minute,
		AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
		MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
	}

	// Сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		catalogClient,
		publisher,
		metricsCollector,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		workingHoursRepository,
		timeOffRepository,
		catalogClient,
		txManager,
		log,
	)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		workingHoursRepository,
		timeOffRepository,
		catalogClient,
		txManager,
		locker,
		publisher,
		policy,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		workingHoursRepository,
		timeOffRepository,
		catalogClient,
		policy,
		metricsCollector,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	getWorkingHours := getWorkingHoursHandler.NewHandler(scheduleSvc, log)
	setWorkingHours := setWorkingHoursHandler.NewHandler(scheduleSvc, log)
	deleteWorkingHours := deleteWorkingHoursHandler.NewHandler(scheduleSvc, log)
	getTimeOff := getTimeOffHandler.NewHandler(scheduleSvc, log)
	createTimeOff := createTimeOffHandler.NewHandler(scheduleSvc, log)
	deleteTimeOff := deleteTimeOffHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware)
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/working-hours", getWorkingHours.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для менеджеров) ---
	protected.HandleFunc("/businesses/{businessId}/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/working-hours", setWorkingHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/working-hours/{day}", deleteWorkingHours.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/businesses/{businessId}/time-off", getTimeOff.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/time-off", createTimeOff.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/time-off/{timeOffId}", deleteTimeOff.Handle).Methods(http.MethodDelete)

	// ============================================================
	// INTERNAL ROUTES (закрыты на уровне сети)
	// ============================================================

	r.HandleFunc("/internal/bookings/{bookingId}/confirm-payment", confirmBooking.Handle).Methods(http.MethodPost)

	// Воркер отмены неоплаченных бронирований
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		expiry.NewWorker(
			bookingSvc,
			time.Duration(cfg.Booking.ExpirySweepIntervalSeconds)*time.Second,
			log,
		).Run(workerCtx)
	}()

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopWorker()
	<-workerDone

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
