package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zendpb/HabitTracker/internal/api/handlers"
	"github.com/zendpb/HabitTracker/internal/api/middleware"
	"github.com/zendpb/HabitTracker/internal/api/routes"
	"github.com/zendpb/HabitTracker/internal/domain/backup"
	"github.com/zendpb/HabitTracker/internal/domain/events"
	"github.com/zendpb/HabitTracker/internal/domain/habits"
	"github.com/zendpb/HabitTracker/internal/domain/notification"
	"github.com/zendpb/HabitTracker/internal/domain/progress"
	"github.com/zendpb/HabitTracker/internal/domain/reminder"
	"github.com/zendpb/HabitTracker/internal/infrastructure/alarm"
	"github.com/zendpb/HabitTracker/internal/infrastructure/persistence/sqlite"
	"github.com/zendpb/HabitTracker/internal/infrastructure/scheduler"
	"github.com/zendpb/HabitTracker/pkg/config"
	"github.com/zendpb/HabitTracker/pkg/logger"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("") // Empty string will make it search in default locations
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.NewLogger(cfg.Logging.Level)
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(middleware.NewMetricsMiddleware().CollectMetrics())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Encoding",
			"Content-Type",
		),
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Encoding",
			"Content-Type",
			"Content-Disposition",
		},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Add Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database
	db, err := sqlite.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := sqlite.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize the in-process event bus
	bus := events.NewBus()

	// Initialize repositories
	habitsRepo := habits.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB)
	notificationRepo := notification.NewRepository(db.DB)

	// Initialize notification feed and alarm dispatcher
	notificationService := notification.NewService(notificationRepo, log.Logger)
	alarmManager := alarm.NewManager(cfg, notificationService, bus, log.Logger)
	defer alarmManager.Shutdown()

	// Initialize the reminder scheduler on top of the alarm dispatcher
	reminderScheduler := reminder.NewScheduler(alarmManager, cfg.Reminders.DefaultHour, log.Logger)

	// Initialize services
	progressService := progress.NewService(progressRepo, bus, log.Logger)
	habitNotifySvc := habits.NewHabitNotificationService(notificationService)
	habitsService := habits.NewService(habitsRepo, progressService, reminderScheduler, habitNotifySvc, bus, log.Logger)
	backupService := backup.NewService(habitsRepo, alarmManager, log.Logger)

	// Initialize and start the daily sweep scheduler
	dailyScheduler := scheduler.NewScheduler(habitsService, log)
	dailyScheduler.Start()
	defer dailyScheduler.Stop()
	log.Info("Daily sweep scheduler started successfully")

	// Initialize handlers
	habitsHandler := handlers.NewHabitsHandler(habitsService, reminderScheduler)
	statsHandler := handlers.NewStatsHandler(progressService)
	backupHandler := handlers.NewBackupHandler(backupService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check routes (no /api prefix as these are system endpoints)
	healthRoutes := routes.NewHealthRoutes(db.DB)
	healthRoutes.RegisterRoutes(router)
	log.Info("Registered health check routes at /health and /health/ready")

	// Habits routes
	habitsRoutes := routes.NewHabitsRoutes(habitsHandler)
	habitsRoutes.RegisterRoutes(router)
	log.Info("Registered habits routes at /api/habits")

	// Stats routes
	statsRoutes := routes.NewStatsRoutes(statsHandler)
	statsRoutes.RegisterRoutes(router)
	log.Info("Registered stats routes at /api/stats")

	// Backup routes
	backupRoutes := routes.NewBackupRoutes(backupHandler)
	backupRoutes.RegisterRoutes(router)
	log.Info("Registered backup routes at /api/backup")

	// Notification routes
	notificationRoutes := routes.NewNotificationRoutes(notificationHandler)
	notificationRoutes.RegisterRoutes(router)
	log.Info("Registered notification routes at /api/notifications")

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
