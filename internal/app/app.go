package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	_ "taskmanager/docs"
	"taskmanager/internal/config"
	"taskmanager/internal/handlers"
	"taskmanager/internal/middleware"
	"taskmanager/internal/pdf"
	"taskmanager/internal/repositories"
	"taskmanager/internal/routes"
	"taskmanager/internal/services"
)

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func Run(ctx context.Context) error {
	cfg := config.LoadConfig()
	gin.SetMode(cfg.Server.Mode)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[app] close db: %v", err)
		}
	}()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	if err := repositories.EnsureSchema(ctx, db); err != nil {
		return err
	}

	// === Repos ===
	taskRepo := repositories.NewTaskRepository(db)
	subTaskRepo := repositories.NewSubTaskRepository(db)

	// === Services ===
	notifier := buildNotifier(cfg)
	taskService := services.NewTaskService(taskRepo, notifier, time.Now)
	subTaskService := services.NewSubTaskService(subTaskRepo, taskRepo, notifier, time.Now)

	// === Handlers ===
	pages := handlers.Pagination{PageSize: cfg.Pagination.PageSize, MaxPageSize: cfg.Pagination.MaxPageSize}
	taskHandler := handlers.NewTaskHandler(taskService, pages)
	statsHandler := handlers.NewStatsHandler(taskService, pdf.NewStatsReportGenerator(cfg.Reports.FontPath))
	subTaskHandler := handlers.NewSubTaskHandler(subTaskService)
	healthHandler := handlers.NewHealthHandler(db)

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Leeway)
	routes.SetupRoutes(router, auth, taskHandler, statsHandler, subTaskHandler, healthHandler)

	// === Run ===
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[app] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[app] shutting down (timeout %s)", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildNotifier enables the Telegram and e-mail sinks that are configured.
func buildNotifier(cfg *config.Config) services.Notifier {
	var sinks services.MultiNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		tg, err := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("[app][warn] telegram notifications disabled: %v", err)
		} else {
			sinks = append(sinks, tg)
		}
	}
	if cfg.Email.SMTPHost != "" && len(cfg.Email.NotifyTo) > 0 {
		sinks = append(sinks, services.NewEmailNotifier(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
			cfg.Email.NotifyTo,
		))
	}
	if len(sinks) == 0 {
		return services.NopNotifier{}
	}
	return sinks
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
