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

	cancelBookingHandler "github.com/m04kA/HMS-BookingService/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/HMS-BookingService/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/m04kA/HMS-BookingService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/HMS-BookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/HMS-BookingService/internal/api/handlers/delete_booking"
	getAvailableSlotsHandler "github.com/m04kA/HMS-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/HMS-BookingService/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/HMS-BookingService/internal/api/handlers/get_client_bookings"
	getProviderBookingsHandler "github.com/m04kA/HMS-BookingService/internal/api/handlers/get_provider_bookings"
	rejectBookingHandler "github.com/m04kA/HMS-BookingService/internal/api/handlers/reject_booking"
	"github.com/m04kA/HMS-BookingService/internal/api/middleware"
	"github.com/m04kA/HMS-BookingService/internal/config"
	bookingRepo "github.com/m04kA/HMS-BookingService/internal/infra/storage/booking"
	clientServiceClient "github.com/m04kA/HMS-BookingService/internal/integrations/clientservice"
	mailerClient "github.com/m04kA/HMS-BookingService/internal/integrations/mailer"
	providerServiceClient "github.com/m04kA/HMS-BookingService/internal/integrations/providerservice"
	bookingsService "github.com/m04kA/HMS-BookingService/internal/service/bookings"
	"github.com/m04kA/HMS-BookingService/internal/service/notifications"
	createBookingUC "github.com/m04kA/HMS-BookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/HMS-BookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/HMS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/HMS-BookingService/pkg/logger"
	"github.com/m04kA/HMS-BookingService/pkg/metrics"
	"github.com/m04kA/HMS-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/HMS-BookingService/pkg/txmanager"
)

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

	log.Info("Starting HMS-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

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

	// Инициализируем интеграционных клиентов
	providerClient := providerServiceClient.NewClient(
		cfg.ProviderService.URL,
		time.Duration(cfg.ProviderService.Timeout)*time.Second,
		log,
	)
	clientClient := clientServiceClient.NewClient(
		cfg.ClientService.URL,
		time.Duration(cfg.ClientService.Timeout)*time.Second,
		log,
	)
	mailer := mailerClient.NewClient(
		cfg.Mailer.URL,
		time.Duration(cfg.Mailer.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProviderService=%s, ClientService=%s, Mailer=%s)",
		cfg.ProviderService.URL, cfg.ClientService.URL, cfg.Mailer.URL)

	// Инициализируем репозиторий и transaction manager (с метриками или без)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	var (
		bookingRepository *bookingRepo.Repository
		txMgr             TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем диспетчер уведомлений
	var notifyMetrics notifications.MetricsObserver
	if cfg.Metrics.Enabled {
		notifyMetrics = metricsCollector
	}
	dispatcher := notifications.NewDispatcher(
		bookingRepository,
		providerClient,
		clientClient,
		mailer,
		cfg.Booking.NotifyQueueSize,
		notifyMetrics,
		log,
	)
	defer dispatcher.Close()
	log.Info("Notification dispatcher started (queue size=%d)", cfg.Booking.NotifyQueueSize)

	// Инициализируем сервис жизненного цикла
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		dispatcher,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		providerClient,
		clientClient,
		dispatcher,
		txMgr,
		cfg.Booking.RejectedFreesSlot,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		providerClient,
		cfg.Booking.RejectedFreesSlot,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	rejectBooking := rejectBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка слотов исполнителя на дату
	api.HandleFunc("/providers/{providerId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют заголовки идентификации)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Переходы жизненного цикла
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// Физическое удаление (только админ)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Списки ---
	// История бронирований клиента
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// Бронирования исполнителя с фильтрацией
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
