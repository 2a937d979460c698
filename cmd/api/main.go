package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/application/service"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/config"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/infrastructure/database"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/infrastructure/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/handler"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/routes"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/scheduler"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/email"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/insight"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/storage"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.App.Name).Logger()
	if cfg.App.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	paymentModeRepo := repository.NewPaymentModeRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	// Initialize file storage
	fileStorage, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	// Initialize AI insight generator (no-op when no API key is configured)
	insightGenerator := insight.NewOpenAIGenerator(insight.Config{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		Temperature: float32(cfg.OpenAI.Temperature),
	})

	// Initialize services
	notificationService := service.NewNotificationService(
		invoiceRepo, emailService, logger,
		cfg.Scheduler.NotifyBufferSize, cfg.Scheduler.ReminderDays,
	)
	notificationService.Start()
	defer notificationService.Close()

	authService := service.NewAuthService(userRepo, jwtManager)
	customerService := service.NewCustomerService(customerRepo)
	invoiceService := service.NewInvoiceService(
		invoiceRepo, customerRepo, paymentRepo, analyticsRepo,
		fileStorage, insightGenerator, notificationService, logger,
		cfg.Storage.UploadMaxSize,
	)
	paymentService := service.NewPaymentService(paymentRepo, paymentModeRepo, invoiceRepo, notificationService, logger)
	recurringService := service.NewRecurringService(invoiceRepo, customerRepo, notificationService, logger)
	dashboardService := service.NewDashboardService(analyticsRepo)
	exportService := service.NewExportService(invoiceRepo, customerRepo, paymentRepo)

	// Initialize scheduler: recurring sweep daily at 09:00, overdue notices
	// Monday 10:00, payment reminders Tuesday and Thursday 14:00
	sched := scheduler.New(scheduler.SystemClock(), logger)
	sched.Every("recurring-sweep", 9, 0, func(ctx context.Context) {
		if _, err := recurringService.ProcessAll(ctx, time.Now()); err != nil {
			logger.Error().Err(err).Msg("recurring sweep failed")
		}
	})
	sched.On("overdue-notices", []time.Weekday{time.Monday}, 10, 0, func(ctx context.Context) {
		if _, err := notificationService.NotifyOverdueInvoices(ctx, time.Now()); err != nil {
			logger.Error().Err(err).Msg("overdue sweep failed")
		}
	})
	sched.On("payment-reminders", []time.Weekday{time.Tuesday, time.Thursday}, 14, 0, func(ctx context.Context) {
		if _, err := notificationService.NotifyPaymentReminders(ctx, time.Now()); err != nil {
			logger.Error().Err(err).Msg("reminder sweep failed")
		}
	})

	if cfg.Scheduler.Enabled {
		sched.Start(context.Background())
		defer sched.Stop()
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Invoice:      handler.NewInvoiceHandler(invoiceService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Customer:     handler.NewCustomerHandler(customerService, invoiceService),
		Recurring:    handler.NewRecurringHandler(recurringService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Export:       handler.NewExportHandler(exportService),
		Notification: handler.NewNotificationHandler(notificationService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
		Logger:     logger,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
