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
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/campus-booking/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/campus-booking/internal/api/handlers/check_availability"
	checkInBookingHandler "github.com/m04kA/campus-booking/internal/api/handlers/check_in_booking"
	checkOutBookingHandler "github.com/m04kA/campus-booking/internal/api/handlers/check_out_booking"
	createBookingHandler "github.com/m04kA/campus-booking/internal/api/handlers/create_booking"
	createResourceHandler "github.com/m04kA/campus-booking/internal/api/handlers/create_resource"
	deactivateResourceHandler "github.com/m04kA/campus-booking/internal/api/handlers/deactivate_resource"
	getAvailableSlotsHandler "github.com/m04kA/campus-booking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/campus-booking/internal/api/handlers/get_booking"
	getResourceHandler "github.com/m04kA/campus-booking/internal/api/handlers/get_resource"
	listBookingsHandler "github.com/m04kA/campus-booking/internal/api/handlers/list_bookings"
	listConflictsHandler "github.com/m04kA/campus-booking/internal/api/handlers/list_conflicts"
	listResourceTypesHandler "github.com/m04kA/campus-booking/internal/api/handlers/list_resource_types"
	listResourcesHandler "github.com/m04kA/campus-booking/internal/api/handlers/list_resources"
	refreshConflictsHandler "github.com/m04kA/campus-booking/internal/api/handlers/refresh_conflicts"
	suggestAlternativesHandler "github.com/m04kA/campus-booking/internal/api/handlers/suggest_alternatives"
	updateBookingStatusHandler "github.com/m04kA/campus-booking/internal/api/handlers/update_booking_status"
	updateResourceHandler "github.com/m04kA/campus-booking/internal/api/handlers/update_resource"
	"github.com/m04kA/campus-booking/internal/api/middleware"
	"github.com/m04kA/campus-booking/internal/config"
	"github.com/m04kA/campus-booking/internal/infra/ratelimit"
	bookingRepo "github.com/m04kA/campus-booking/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/campus-booking/internal/infra/storage/resource"
	userServiceClient "github.com/m04kA/campus-booking/internal/integrations/userservice"
	"github.com/m04kA/campus-booking/internal/service/access"
	bookingsService "github.com/m04kA/campus-booking/internal/service/bookings"
	"github.com/m04kA/campus-booking/internal/service/conflicts"
	resourcesService "github.com/m04kA/campus-booking/internal/service/resources"
	checkAvailabilityUC "github.com/m04kA/campus-booking/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/campus-booking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/campus-booking/internal/usecase/get_available_slots"
	suggestAlternativesUC "github.com/m04kA/campus-booking/internal/usecase/suggest_alternatives"
	"github.com/m04kA/campus-booking/pkg/dbmetrics"
	"github.com/m04kA/campus-booking/pkg/logger"
	"github.com/m04kA/campus-booking/pkg/metrics"
	"github.com/m04kA/campus-booking/pkg/txmanager"
)

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

	log.Info("Starting campus-booking...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load booking timezone %q: %v", cfg.Booking.Timezone, err)
	}

	// Метрики (nil, если выключены: все методы *metrics.Metrics безопасны для nil)
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB, cfg.Booking.LockRetryAttempts)

	// Интеграции
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("User service client initialized (url=%s, timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	resourceRepository := resourceRepo.NewRepository(wrappedDB)

	// Сервисы
	policy := access.NewPolicy()
	detector := conflicts.NewDetector(bookingRepository, txMgr, log)
	bookingSvc := bookingsService.NewService(bookingRepository, detector, policy, txMgr, metricsCollector, log)
	resourceSvc := resourcesService.NewService(resourceRepository, policy, log)

	// Use cases
	suggestAlternativesUseCase := suggestAlternativesUC.NewUseCase(resourceRepository, detector, location, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		resourceRepository,
		detector,
		suggestAlternativesUseCase,
		txMgr,
		metricsCollector,
		location,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(bookingRepository, resourceRepository, location, log)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		resourceRepository,
		detector,
		suggestAlternativesUseCase,
		location,
		log,
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	checkInBooking := checkInBookingHandler.NewHandler(bookingSvc, log)
	checkOutBooking := checkOutBookingHandler.NewHandler(bookingSvc, log)
	refreshConflicts := refreshConflictsHandler.NewHandler(bookingSvc, log)

	listResources := listResourcesHandler.NewHandler(resourceSvc, log)
	listResourceTypes := listResourceTypesHandler.NewHandler()
	getResource := getResourceHandler.NewHandler(resourceSvc, log)
	createResource := createResourceHandler.NewHandler(resourceSvc, log)
	updateResource := updateResourceHandler.NewHandler(resourceSvc, log)
	deactivateResource := deactivateResourceHandler.NewHandler(resourceSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	listConflicts := listConflictsHandler.NewHandler(detector, log)
	suggestAlternatives := suggestAlternativesHandler.NewHandler(suggestAlternativesUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Лимитер запросов: Redis при нескольких экземплярах сервиса, иначе память процесса
	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		var store ratelimit.Store
		if cfg.Redis.Enabled {
			rdb = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				log.Warn("Redis is unavailable (addr=%s): %v; requests pass until it recovers", cfg.Redis.Addr, err)
			}
			cancel()
			store = ratelimit.NewRedisStore(rdb)
			log.Info("Rate limiter uses Redis at %s", cfg.Redis.Addr)
		} else {
			store = ratelimit.NewMemoryStore(nil)
			log.Info("Rate limiter uses in-memory store")
		}

		limiter := ratelimit.NewLimiter(
			store,
			cfg.RateLimit.MaxRequests,
			cfg.RateLimit.Window(),
			cfg.RateLimit.KeyPrefix,
			nil,
		)
		api.Use(middleware.RateLimit(limiter, metricsCollector, log))
		log.Info("Rate limit: %d requests per %s", cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())
	}

	// ============================================================
	// PUBLIC ROUTES (X-User-ID необязателен)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth(userClient, log))

	public.HandleFunc("/resources", listResources.Handle).Methods(http.MethodGet)
	public.HandleFunc("/resources/types", listResourceTypes.Handle).Methods(http.MethodGet)
	public.HandleFunc("/resources/{resourceId:[0-9]+}", getResource.Handle).Methods(http.MethodGet)
	public.HandleFunc("/resources/{resourceId:[0-9]+}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/resources/{resourceId:[0-9]+}/availability", checkAvailability.Handle).Methods(http.MethodPost)
	public.HandleFunc("/resources/{resourceId:[0-9]+}/alternatives", suggestAlternatives.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(userClient, log))

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/status", updateBookingStatus.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/checkin", checkInBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/checkout", checkOutBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/conflicts/refresh", refreshConflicts.Handle).Methods(http.MethodPost)

	// --- Ресурсы (изменения только для администратора) ---
	protected.HandleFunc("/resources", createResource.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/resources/{resourceId:[0-9]+}", updateResource.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/resources/{resourceId:[0-9]+}", deactivateResource.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/resources/{resourceId:[0-9]+}/conflicts", listConflicts.Handle).Methods(http.MethodGet)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
