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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/DC-BookingService/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/DC-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/DC-BookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/DC-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/DC-BookingService/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/m04kA/DC-BookingService/internal/api/handlers/get_user_bookings"
	"github.com/m04kA/DC-BookingService/internal/api/middleware"
	"github.com/m04kA/DC-BookingService/internal/config"
	"github.com/m04kA/DC-BookingService/internal/infra/lock"
	auditRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/audit"
	bookingRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/booking"
	mappingRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/mapping"
	poojaRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/pooja"
	providerRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/provider"
	templeRepo "github.com/m04kA/DC-BookingService/internal/infra/storage/temple"
	bookingsService "github.com/m04kA/DC-BookingService/internal/service/bookings"
	cancelBookingUC "github.com/m04kA/DC-BookingService/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/DC-BookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/DC-BookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/DC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DC-BookingService/pkg/logger"
	"github.com/m04kA/DC-BookingService/pkg/metrics"
	"github.com/m04kA/DC-BookingService/pkg/txmanager"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(logger.Options{
		File:    cfg.Logs.File,
		Level:   cfg.Logs.Level,
		Format:  cfg.Logs.Format,
		Service: cfg.Metrics.ServiceName,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting DC-BookingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone %q: %v", cfg.Booking.Timezone, err)
	}

	// Метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
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

	// С nil-метриками обертка работает как прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := wrappedDB.PingContext(pingCtx); err != nil {
		pingCancel()
		log.Fatal("Failed to ping database: %v", err)
	}
	pingCancel()
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	providerRepository := providerRepo.NewRepository(wrappedDB)
	poojaRepository := poojaRepo.NewRepository(wrappedDB)
	mappingRepository := mappingRepo.NewRepository(wrappedDB)
	templeRepository := templeRepo.NewRepository(wrappedDB)
	auditRepository := auditRepo.NewRepository(wrappedDB)

	// Блокировки слотов в Redis (опционально)
	var (
		redisClient *redis.Client
		slotLocker  createBookingUC.SlotLocker
	)
	if cfg.Redis.Enabled {
		redisClient = lock.NewRedisClient(cfg.Redis)
		defer redisClient.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := lock.Ping(pingCtx, redisClient); err != nil {
			log.Warn("Redis is unavailable at %s, slot locks will be skipped until it recovers: %v", cfg.Redis.Address, err)
		} else {
			log.Info("Connected to Redis at %s", cfg.Redis.Address)
		}
		pingCancel()

		slotLocker = lock.NewSlotLocker(redisClient, cfg.Booking.SlotLockTTL())
	} else {
		log.Info("Redis slot locks disabled, relying on database unique index")
	}

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		mappingRepository,
		providerRepository,
		bookingRepository,
		poojaRepository,
		templeRepository,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		providerRepository,
		poojaRepository,
		mappingRepository,
		templeRepository,
		getAvailableSlotsUseCase,
		slotLocker,
		cfg.Booking.MeetingBaseURL,
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		auditRepository,
		txMgr,
		location,
		cfg.Booking.RefundProcessingDays,
		log,
	)

	bookingSvc := bookingsService.NewService(bookingRepository, log)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)

	// Роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Timeout(cfg.Booking.RequestTimeout()))

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// Доступные слоты со священниками
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT)
	// ============================================================

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret, log))
	protected.Use(limiter.Middleware())

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

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
