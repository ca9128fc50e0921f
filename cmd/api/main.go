package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dmartell/clientia-api/docs" // Swagger docs
	"github.com/dmartell/clientia-api/internal/config"
	"github.com/dmartell/clientia-api/internal/database"
	"github.com/dmartell/clientia-api/internal/handlers"
	"github.com/dmartell/clientia-api/internal/jobs"
	"github.com/dmartell/clientia-api/internal/middleware"
	"github.com/dmartell/clientia-api/internal/repository"
	"github.com/dmartell/clientia-api/internal/services"
	"github.com/dmartell/clientia-api/internal/storage"
	"github.com/dmartell/clientia-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Clientia API
// @version 1.0
// @description REST API for Clientia, a CRM for small service businesses

// @contact.name API Support
// @contact.email soporte@clientia.app

// @host localhost:8081
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Quote and invoice emails will not be delivered.")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("Database schema up to date")

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, store, cfg, db)

	scheduleJobs(worker, svcs)

	h := handlers.NewHandlers(svcs)

	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication and password recovery (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
			auth.POST("/recovery", h.Auth.RequestRecovery)
			auth.POST("/recovery/verify", h.Auth.VerifyRecoveryCode)
			auth.POST("/recovery/reset", h.Auth.ResetPassword)
		}

		// Public token access (no auth; the token is the credential)
		public := v1.Group("/public")
		{
			public.GET("/quotes/:token", h.Public.GetQuote)
			public.POST("/quotes/:token/respond", h.Public.RespondToQuote)
			public.GET("/invoices/:token", h.Public.GetInvoice)
			public.GET("/boards/:token", h.Public.GetBoard)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.POST("/users/:user_id/toggle_status", h.User.ToggleStatus)
				admin.POST("/users/:user_id/restore", h.User.Restore)
				admin.POST("/users/:user_id/reset_password", h.User.ForcePassword)

				admin.GET("/audit-logs", h.Audit.Index)
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Profile update: admin or the profile owner
			protected.GET("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PUT("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Update)
			protected.POST("/users/change_password", h.User.ChangePassword)
			protected.PATCH("/users/update_locale", h.User.UpdateLocale)

			// Clients and prospects
			clients := protected.Group("/clients")
			{
				clients.GET("", h.Client.Index)
				clients.POST("", h.Client.Create)
				clients.GET("/:client_id", h.Client.Show)
				clients.PUT("/:client_id", h.Client.Update)
				clients.DELETE("/:client_id", h.Client.Delete)
				clients.POST("/:client_id/archive", h.Client.Archive)
				clients.GET("/:client_id/conversion", h.Client.CheckConversion)
				clients.POST("/:client_id/convert", h.Client.Convert)
			}
			protected.POST("/clients/convert_qualified", h.Client.ConvertQualified)

			// Quotes
			quotes := protected.Group("/quotes")
			{
				quotes.GET("", h.Quote.Index)
				quotes.POST("", h.Quote.Create)
				quotes.GET("/:quote_id", h.Quote.Show)
				quotes.PUT("/:quote_id", h.Quote.Update)
				quotes.DELETE("/:quote_id", h.Quote.Delete)
				quotes.POST("/:quote_id/send", h.Quote.Send)
				quotes.GET("/:quote_id/pdf", h.Quote.PDF)
				quotes.POST("/:quote_id/invoice", h.Invoice.CreateFromQuote)
			}

			// Invoices
			invoices := protected.Group("/invoices")
			{
				invoices.GET("", h.Invoice.Index)
				invoices.POST("", h.Invoice.Create)
				invoices.GET("/:invoice_id", h.Invoice.Show)
				invoices.DELETE("/:invoice_id", h.Invoice.Delete)
				invoices.POST("/:invoice_id/send", h.Invoice.Send)
				invoices.POST("/:invoice_id/mark_paid", h.Invoice.MarkPaid)
				invoices.PATCH("/:invoice_id/due_date", h.Invoice.UpdateDueDate)
				invoices.POST("/:invoice_id/cancel", h.Invoice.Cancel)
				invoices.POST("/:invoice_id/document", h.Invoice.AttachDocument)
				invoices.GET("/:invoice_id/document", h.Invoice.DownloadDocument)
				invoices.GET("/:invoice_id/pdf", h.Invoice.PDF)
			}
			protected.GET("/reports/revenue", h.Invoice.RevenueSummary)
			protected.GET("/reports/revenue_csv", h.Invoice.RevenueCSV)

			// Bank transactions and reconciliation
			bank := protected.Group("/bank_transactions")
			{
				bank.GET("", h.BankTransaction.Index)
				bank.POST("", h.BankTransaction.Create)
				bank.POST("/import", h.BankTransaction.Import)
				bank.GET("/stats", h.BankTransaction.Stats)
				bank.GET("/export", h.BankTransaction.Export)
				bank.GET("/:transaction_id", h.BankTransaction.Show)
				bank.PUT("/:transaction_id", h.BankTransaction.Update)
				bank.DELETE("/:transaction_id", h.BankTransaction.Delete)
				bank.GET("/:transaction_id/reconciliations", h.BankTransaction.Reconciliations)
			}

			// Project boards
			projects := protected.Group("/projects")
			{
				projects.GET("", h.Project.Index)
				projects.POST("", h.Project.Create)
				projects.GET("/:project_id", h.Project.Show)
				projects.PUT("/:project_id", h.Project.Update)
				projects.DELETE("/:project_id", h.Project.Delete)
				projects.POST("/:project_id/share", h.Project.Share)
				projects.DELETE("/:project_id/share", h.Project.Unshare)
				projects.POST("/:project_id/columns", h.Project.AddColumn)
			}
			protected.PUT("/columns/:column_id", h.Project.RenameColumn)
			protected.DELETE("/columns/:column_id", h.Project.DeleteColumn)
			protected.POST("/cards", h.Project.AddCard)
			protected.PUT("/cards/:card_id", h.Project.UpdateCard)
			protected.POST("/cards/:card_id/move", h.Project.MoveCard)
			protected.DELETE("/cards/:card_id", h.Project.DeleteCard)

			// Notifications
			// Static route first so "read-all" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/read-all", h.Notification.MarkAllAsRead)
				notifications.POST("/:notification_id/read", h.Notification.MarkAsRead)
				notifications.DELETE("/:notification_id", h.Notification.Delete)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Sweep overdue invoices every hour, starting right away so a deploy
	// restart does not delay the sweep.
	worker.ScheduleEveryImmediate(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Marking overdue invoices...")
		marked, err := svcs.Invoice.MarkOverdueInvoices(ctx)
		if err != nil {
			return err
		}
		if marked > 0 {
			logger.Info("[Job] Invoices marked overdue", "count", marked)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
