package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createBookingHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_booking"
	getDayBookingsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_day_bookings"
	resolveHoldHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/resolve_hold"
	"github.com/m04kA/SMC-VenueBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-VenueBookingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/service"
	messengerClient "github.com/m04kA/SMC-VenueBookingService/internal/integrations/messenger"
	"github.com/m04kA/SMC-VenueBookingService/internal/notify"
	bookingsService "github.com/m04kA/SMC-VenueBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/holds"
	createBookingUC "github.com/m04kA/SMC-VenueBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-VenueBookingService/internal/usecase/get_available_slots"
	resolveHoldUC "github.com/m04kA/SMC-VenueBookingService/internal/usecase/resolve_hold"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
	"github.com/m04kA/SMC-VenueBookingService/pkg/memtxmanager"
	"github.com/m04kA/SMC-VenueBookingService/pkg/metrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-VenueBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// BookingRepository общий контракт хранилища бронирований:
// обе реализации (memory и postgres) подходят под него целиком
type BookingRepository interface {
	createBookingUC.BookingRepository
	resolveHoldUC.BookingRepository
	bookingsService.BookingRepository
	holds.BookingRepository
	notify.BookingRepository
}

// TxManager контракт транзакционного менеджера для usecases
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-VenueBookingService...")
	log.Info("Configuration loaded from config.toml")

	location := cfg.Booking.Location()
	log.Info("Venue timezone: %s", cfg.Booking.Timezone)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище в зависимости от режима
	var (
		bookingRepository BookingRepository
		serviceCatalog    createBookingUC.ServiceCatalog
		txMgr             TxManager
	)

	switch cfg.Storage.Mode {
	case config.StorageModeMemory:
		bookingRepository = bookingRepo.NewMemoryRepository()
		serviceCatalog = serviceRepo.NewMemoryCatalog(cfg.DomainServices())
		txMgr = memtxmanager.NewTransactionManager()
		log.Info("Storage mode: memory (%d services from config)", len(cfg.Services))

	case config.StorageModePostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		// Проверяем соединение
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Metrics.Enabled {
			wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
			log.Info("Database metrics collection started")

			bookingRepository = bookingRepo.NewRepository(wrappedDB)
			serviceCatalog = serviceRepo.NewRepository(wrappedDB)
			txMgr = txmanager.NewTransactionManager(wrappedDB)
		} else {
			bookingRepository = bookingRepo.NewRepository(db)
			serviceCatalog = serviceRepo.NewRepository(db)
			txMgr = simpletxmanager.NewTransactionManager(db)
		}
		log.Info("Storage mode: postgres")
	}

	// Инициализируем клиент мессенджер-шлюза
	messenger := messengerClient.NewClient(
		cfg.Messenger.URL,
		cfg.Booking.AdminChatIDs,
		cfg.Messenger.Enabled,
		time.Duration(cfg.Messenger.Timeout)*time.Second,
		log,
	)
	log.Info("Messenger client initialized (enabled=%t, url=%s)", cfg.Messenger.Enabled, cfg.Messenger.URL)

	// Планировщик предупреждений и рассылка уведомлений
	notifier := notify.NewNotifier(
		bookingRepository,
		messenger,
		time.Duration(cfg.Booking.HoldWarnBeforeMinutes)*time.Minute,
		location,
		metricsCollector,
		log,
	)

	// Фоновая метла холдов: гасит просроченные заявки и отдает их нотификатору
	holdManager, err := holds.NewManager(
		bookingRepository,
		time.Duration(cfg.Booking.SweepIntervalSeconds)*time.Second,
		location,
		notifier.NotifyExpired,
		metricsCollector,
		log,
	)
	if err != nil {
		log.Fatal("Failed to create hold manager: %v", err)
	}
	holdManager.Start()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, location, log)

	// Настройки движка доступности из конфигурации
	openTime, _ := types.NewTimeStringFromString(cfg.Booking.OpenTime)
	closeTime, _ := types.NewTimeStringFromString(cfg.Booking.CloseTime)

	allowedDurations := make([]time.Duration, 0, len(cfg.Booking.AllowedDurationMinutes))
	for _, m := range cfg.Booking.AllowedDurationMinutes {
		allowedDurations = append(allowedDurations, time.Duration(m)*time.Minute)
	}

	slotsSettings := getAvailableSlotsUC.Settings{
		Location:        location,
		OpenTime:        openTime,
		CloseTime:       closeTime,
		Step:            time.Duration(cfg.Booking.SlotStepMinutes) * time.Minute,
		DefaultDuration: time.Duration(cfg.Booking.DefaultDurationMinutes) * time.Minute,
		AllowedDuration: allowedDurations,
		PreBuffer:       time.Duration(cfg.Booking.PreBufferMinutes) * time.Minute,
		PostBuffer:      time.Duration(cfg.Booking.PostBufferMinutes) * time.Minute,
	}
	if cfg.Booking.VisibleFrom != "" {
		visibleFrom, _ := types.NewTimeStringFromString(cfg.Booking.VisibleFrom)
		slotsSettings.VisibleFrom = visibleFrom
	}
	if cfg.Booking.VisibleTo != "" {
		visibleTo, _ := types.NewTimeStringFromString(cfg.Booking.VisibleTo)
		slotsSettings.VisibleTo = visibleTo
	}

	createSettings := createBookingUC.Settings{
		Location:        location,
		DefaultDuration: time.Duration(cfg.Booking.DefaultDurationMinutes) * time.Minute,
		AllowedDuration: allowedDurations,
		Hold:            time.Duration(cfg.Booking.HoldMinutes) * time.Minute,
	}

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(bookingRepository, slotsSettings, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceCatalog,
		notifier,
		txMgr,
		createSettings,
		log,
	)
	resolveHoldUseCase := resolveHoldUC.NewUseCase(bookingRepository, notifier, txMgr, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getDayBookings := getDayBookingsHandler.NewHandler(bookingSvc, log)
	resolveHold := resolveHoldHandler.NewHandler(resolveHoldUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты на дату
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание заявки на бронирование
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (только для администраторов)
	// ============================================================

	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Booking.AdminChatIDs))

	// Журнал бронирований на день
	admin.HandleFunc("/bookings", getDayBookings.Handle).Methods(http.MethodGet)

	// Карточка заявки
	admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Решение по заявке на холде
	admin.HandleFunc("/bookings/{bookingId}/resolve", resolveHold.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	// Останавливаем фоновые контуры: сначала метлу, потом таймеры предупреждений
	holdManager.Stop()
	notifier.Stop()

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
