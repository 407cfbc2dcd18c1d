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

	blockSlotHandler "github.com/salonix/SLN-BookingService/internal/api/handlers/block_slot"
	cancelAppointmentHandler "github.com/salonix/SLN-BookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/salonix/SLN-BookingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/salonix/SLN-BookingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/salonix/SLN-BookingService/internal/api/handlers/get_available_slots"
	getBlockedSlotsHandler "github.com/salonix/SLN-BookingService/internal/api/handlers/get_blocked_slots"
	getDaySheetHandler "github.com/salonix/SLN-BookingService/internal/api/handlers/get_day_sheet"
	getStaffHandler "github.com/salonix/SLN-BookingService/internal/api/handlers/get_staff"
	getUserAppointmentsHandler "github.com/salonix/SLN-BookingService/internal/api/handlers/get_user_appointments"
	unblockSlotHandler "github.com/salonix/SLN-BookingService/internal/api/handlers/unblock_slot"
	updateStatusHandler "github.com/salonix/SLN-BookingService/internal/api/handlers/update_appointment_status"
	"github.com/salonix/SLN-BookingService/internal/api/middleware"
	"github.com/salonix/SLN-BookingService/internal/config"
	"github.com/salonix/SLN-BookingService/internal/domain"
	appointmentRepo "github.com/salonix/SLN-BookingService/internal/infra/storage/appointment"
	blockedSlotRepo "github.com/salonix/SLN-BookingService/internal/infra/storage/blockedslot"
	catalogRepo "github.com/salonix/SLN-BookingService/internal/infra/storage/catalog"
	staffRepo "github.com/salonix/SLN-BookingService/internal/infra/storage/staff"
	notifierClient "github.com/salonix/SLN-BookingService/internal/integrations/notifier"
	appointmentsService "github.com/salonix/SLN-BookingService/internal/service/appointments"
	blockedSlotsService "github.com/salonix/SLN-BookingService/internal/service/blockedslots"
	createAppointmentUC "github.com/salonix/SLN-BookingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/salonix/SLN-BookingService/internal/usecase/get_available_slots"
	"github.com/salonix/SLN-BookingService/pkg/dbmetrics"
	"github.com/salonix/SLN-BookingService/pkg/logger"
	"github.com/salonix/SLN-BookingService/pkg/metrics"
	"github.com/salonix/SLN-BookingService/pkg/simpletxmanager"
	"github.com/salonix/SLN-BookingService/pkg/txmanager"
)

// txManager объединяет режимы транзакций, которые нужны сервисам и use case
type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

	log.Info("Starting SLN-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Строим сетку слотов рабочего дня из конфигурации
	grid, err := domain.NewGrid(cfg.Schedule.OpenHour, cfg.Schedule.CloseHour, cfg.Schedule.SlotDurationMinutes)
	if err != nil {
		log.Fatal("Failed to build slot grid: %v", err)
	}
	log.Info("Slot grid built: %d slots of %d minutes (%02d:00 - %02d:00)",
		grid.Len(), grid.SlotMinutes(), cfg.Schedule.OpenHour, cfg.Schedule.CloseHour)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Клиент диспетчера уведомлений
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.TimeoutSeconds)*time.Second,
		cfg.Notifier.Enabled,
		log,
	)
	if cfg.Notifier.Enabled {
		log.Info("Notifier client initialized (url=%s, timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.TimeoutSeconds)
	} else {
		log.Info("Notifier disabled, confirmations will not be sent")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		catalogRepository     *catalogRepo.Repository
		blockedSlotRepository *blockedSlotRepo.Repository
		staffRepository       *staffRepo.Repository
		txMgr                 txManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		blockedSlotRepository = blockedSlotRepo.NewRepository(wrappedDB)
		staffRepository = staffRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		blockedSlotRepository = blockedSlotRepo.NewRepository(db)
		staffRepository = staffRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		catalogRepository,
		notifier,
		txMgr,
		log,
	)
	blockedSlotSvc := blockedSlotsService.NewService(
		blockedSlotRepository,
		staffRepository,
		grid,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		grid,
		appointmentRepository,
		catalogRepository,
		blockedSlotRepository,
		staffRepository,
		notifier,
		txMgr,
		time.Duration(cfg.Booking.CommitTimeoutSeconds)*time.Second,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		grid,
		appointmentRepository,
		blockedSlotRepository,
		catalogRepository,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentSvc, log)
	getDaySheet := getDaySheetHandler.NewHandler(appointmentSvc, log)
	updateStatus := updateStatusHandler.NewHandler(appointmentSvc, log)
	blockSlot := blockSlotHandler.NewHandler(blockedSlotSvc, log)
	unblockSlot := unblockSlotHandler.NewHandler(blockedSlotSvc, log)
	getBlockedSlots := getBlockedSlotsHandler.NewHandler(blockedSlotSvc, log)
	getStaff := getStaffHandler.NewHandler(staffRepository, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix: все маршруты требуют идентификации шлюза (X-User-ID)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(log))

	// --- Доступность и справочники ---
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff", getStaff.Handle).Methods(http.MethodGet)

	// --- Записи ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments", getUserAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPut)

	// --- Администрирование (требует роль admin) ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin(log))

	admin.HandleFunc("/appointments", getDaySheet.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/blocked-slots", blockSlot.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/blocked-slots", getBlockedSlots.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/blocked-slots/{blockId}", unblockSlot.Handle).Methods(http.MethodDelete)

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
