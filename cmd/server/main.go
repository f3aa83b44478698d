package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	billingapp "github.com/krodas7/constructora-backend/internal/application/billing"
	dashboardapp "github.com/krodas7/constructora-backend/internal/application/dashboard"
	expenseapp "github.com/krodas7/constructora-backend/internal/application/expense"
	identityapp "github.com/krodas7/constructora-backend/internal/application/identity"
	inventoryapp "github.com/krodas7/constructora-backend/internal/application/inventory"
	notificationapp "github.com/krodas7/constructora-backend/internal/application/notification"
	partnerapp "github.com/krodas7/constructora-backend/internal/application/partner"
	payrollapp "github.com/krodas7/constructora-backend/internal/application/payroll"
	projectapp "github.com/krodas7/constructora-backend/internal/application/project"
	quotationapp "github.com/krodas7/constructora-backend/internal/application/quotation"
	reportapp "github.com/krodas7/constructora-backend/internal/application/report"
	"github.com/krodas7/constructora-backend/internal/infrastructure/auth"
	"github.com/krodas7/constructora-backend/internal/infrastructure/cache"
	"github.com/krodas7/constructora-backend/internal/infrastructure/config"
	"github.com/krodas7/constructora-backend/internal/infrastructure/logger"
	"github.com/krodas7/constructora-backend/internal/infrastructure/mail"
	"github.com/krodas7/constructora-backend/internal/infrastructure/persistence"
	"github.com/krodas7/constructora-backend/internal/infrastructure/printing"
	"github.com/krodas7/constructora-backend/internal/infrastructure/scheduler"
	"github.com/krodas7/constructora-backend/internal/infrastructure/storage"
	"github.com/krodas7/constructora-backend/internal/interfaces/http/handler"
	"github.com/krodas7/constructora-backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting backoffice server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	gormLevel := gormlogger.Warn
	if cfg.Log.Level == "debug" {
		gormLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, gormLevel))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	store, err := cache.NewStoreFactory(cfg.Redis, cache.WithLogger(log), cache.WithInMemoryFallback(true)).CreateStore()
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer store.Close()

	objects, err := storage.New(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	var mailer mail.Sender
	if cfg.SMTP.Enabled {
		mailer = mail.NewSMTPSender(cfg.SMTP)
	} else {
		mailer = mail.NewNoopSender(log)
	}

	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		RemoteURL: cfg.Printing.ChromeRemoteURL,
		Timeout:   cfg.Printing.Timeout,
		NoSandbox: cfg.Printing.NoSandbox,
		Logger:    log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer renderer.Close()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	fileRepo := persistence.NewGormFileRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	advanceRepo := persistence.NewGormAdvanceRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	payrollRepo := persistence.NewGormPayrollRepository(db.DB)
	workerRepo := persistence.NewGormWorkerRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	clientService := partnerapp.NewService(clientRepo)
	projectService := projectapp.NewService(projectRepo, clientRepo)
	fileService := projectapp.NewFileService(fileRepo, projectRepo, objects)
	invoiceService := billingapp.NewInvoiceService(db.DB, invoiceRepo, paymentRepo, projectRepo, clientRepo)
	advanceService := billingapp.NewAdvanceService(db.DB, advanceRepo, projectRepo)
	expenseService := expenseapp.NewService(db.DB, expenseRepo, auditRepo)
	payrollService := payrollapp.NewService(db.DB, payrollRepo, workerRepo, projectRepo)
	inventoryService := inventoryapp.NewService(db.DB, inventoryRepo, projectRepo)
	quotationService := quotationapp.NewService(quotationRepo, projectRepo)
	notificationService := notificationapp.NewService(notificationRepo, userRepo, mailer, log)
	dashboardService := dashboardapp.NewService(dashboardRepo, clientRepo, projectRepo, store, log)
	reportService := reportapp.NewService(invoiceRepo, clientRepo, projectRepo, payrollRepo, workerRepo, quotationRepo, renderer, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.New(router.Config{
		Logger:     log,
		DB:         db.DB,
		JWTService: jwtService,
		UserRepo:   userRepo,
		Handlers: router.Handlers{
			Auth:         handler.NewAuthHandler(authService),
			Client:       handler.NewClientHandler(clientService),
			Project:      handler.NewProjectHandler(projectService),
			File:         handler.NewFileHandler(fileService),
			Invoice:      handler.NewInvoiceHandler(invoiceService),
			Advance:      handler.NewAdvanceHandler(advanceService),
			Expense:      handler.NewExpenseHandler(expenseService),
			Payroll:      handler.NewPayrollHandler(payrollService),
			Inventory:    handler.NewInventoryHandler(inventoryService),
			Quotation:    handler.NewQuotationHandler(quotationService),
			Notification: handler.NewNotificationHandler(notificationService),
			Dashboard:    handler.NewDashboardHandler(dashboardService),
			Report:       handler.NewReportHandler(reportService),
		},
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		MaxBodySize:  cfg.HTTP.MaxBodySize,
		Version:      version,
	})
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}
	engine.MaxMultipartMemory = cfg.HTTP.MaxBodySize

	// Background jobs
	sched := scheduler.New(log)
	if cfg.Scheduler.Enabled {
		sched.Register("overdue-invoices", cfg.Scheduler.OverdueCheckInterval, func(ctx context.Context) error {
			n, err := invoiceService.UpdateOverdueStatuses(ctx, time.Now())
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("Invoices marked overdue", zap.Int("count", n))
			}
			return nil
		})
		sched.Register("dispatch-notifications", cfg.Scheduler.NotifyInterval, func(ctx context.Context) error {
			n, err := notificationService.DispatchDue(ctx, time.Now())
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("Scheduled notifications dispatched", zap.Int("count", n))
			}
			return nil
		})
		sched.Start(context.Background())
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
