package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/auth"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/config"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/engine"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/http/handler"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/http/middleware"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/http/router"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/jobs"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/logger"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/notify"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/service"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/store"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Initialize state: seeded snapshot behind a single-owner store
	initial := store.Seed(time.Now())
	initial.Settings = domain.Settings{
		CompanyName:  cfg.Company.Name,
		CompanyEmail: cfg.Company.Email,
	}
	st := store.New(engine.New(), initial, log)

	log.Info("State seeded",
		zap.Int("users", len(initial.Users)),
		zap.Int("suppliers", len(initial.Suppliers)),
		zap.Int("quotations", len(initial.Quotations)),
	)

	// Initialize auth
	tokens := auth.NewTokenManager(&cfg.Auth, &cfg.App)
	authMiddleware := auth.NewMiddleware(tokens, st, log)

	// Initialize notification simulation
	mailer := notify.NewLogMailer(log)

	// Initialize services
	authService := service.NewAuthService(st, tokens, log)
	userService := service.NewUserService(st, log)
	supplierService := service.NewSupplierService(st, log)
	directoryService := service.NewDirectoryService(st, log)
	quotationService := service.NewQuotationService(st, mailer, tokens, log)
	orderService := service.NewOrderService(st, log)
	dashboardService := service.NewDashboardService(st, log)
	settingsService := service.NewSettingsService(st, log)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	userHandler := handler.NewUserHandler(userService, log)
	supplierHandler := handler.NewSupplierHandler(supplierService, log)
	directoryHandler := handler.NewDirectoryHandler(directoryService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, orderService, log)
	orderHandler := handler.NewOrderHandler(orderService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	settingsHandler := handler.NewSettingsHandler(settingsService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		authMiddleware,
		rateLimiter,
		authHandler,
		userHandler,
		supplierHandler,
		directoryHandler,
		quotationHandler,
		orderHandler,
		dashboardHandler,
		settingsHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Reminder.Enabled {
		scheduler = jobs.NewScheduler(log)
		reminderJob := jobs.NewReminderJob(st, mailer, log, cfg.Reminder.PendingAgeDuration())
		if err := scheduler.AddJob(jobs.ReminderJobName, cfg.Reminder.Cron, reminderJob.Run); err != nil {
			log.Error("Failed to register reminder job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with reminder job",
				zap.String("cron_expr", cfg.Reminder.Cron),
				zap.Duration("pending_age", cfg.Reminder.PendingAgeDuration()),
			)
		}
	} else {
		log.Info("Reminder job disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful server shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("failed to shut down server gracefully: %w", err)
		}
		log.Info("Server stopped")
	}

	return nil
}
