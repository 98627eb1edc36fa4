package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kinhealth/config"
	deliveryHttp "kinhealth/internal/delivery/http"
	"kinhealth/internal/delivery/http/handler"
	"kinhealth/internal/delivery/http/middleware"
	"kinhealth/internal/infrastructure/cache"
	"kinhealth/internal/infrastructure/database"
	"kinhealth/internal/infrastructure/llm"
	"kinhealth/internal/infrastructure/messaging"
	"kinhealth/internal/infrastructure/telemetry"
	"kinhealth/internal/repository"
	"kinhealth/internal/service"
	"kinhealth/internal/usecase"
	"kinhealth/pkg/jwt"
	"kinhealth/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   *messaging.Publisher
	Telemetry   *telemetry.Provider
	Server      *http.Server

	logFile io.Closer
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log, logFile := newLogger(cfg.Log)
	app.Log = log
	app.logFile = logFile
	log.Info("Configuration loaded successfully")

	// Initialize tracing
	tp, err := telemetry.InitProvider(context.Background(), cfg.Telemetry, cfg.App.Env, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	app.Telemetry = tp

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	if err := database.Migrate(db, log); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Events are optional; the service runs without a broker
	publisher, err := messaging.NewPublisher(cfg.RabbitMQ, log)
	if err != nil {
		log.Warnf("RabbitMQ unavailable, domain events will be skipped: %v", err)
	} else {
		app.Publisher = publisher
	}

	// Initialize all layers
	app.Server = initializeServer(cfg, log, db, redisClient, app.eventPublisher())

	return app, nil
}

// eventPublisher keeps a missing broker as a nil interface rather than a typed nil
func (app *App) eventPublisher() messaging.PublisherInterface {
	if app.Publisher == nil {
		return nil
	}
	return app.Publisher
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client, publisher messaging.PublisherInterface) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	memberRepo := repository.NewFamilyMemberRepository()
	healthEventRepo := repository.NewHealthEventRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	rosterService := service.NewRosterService(db, redisClient, log, memberRepo, cfg.Extraction.RosterTTL)
	clarificationService := service.NewClarificationService(redisClient, log, cfg.Extraction.ClarificationTTL)

	// Initialize completion client
	completionClient := llm.NewOpenAIClient(cfg.LLM, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, auditService, jwtService, redisClient)
	memberUsecase := usecase.NewFamilyMemberUsecase(db, log, memberRepo, healthEventRepo, auditService, rosterService, publisher)
	healthEventUsecase := usecase.NewHealthEventUsecase(db, log, memberRepo, healthEventRepo, auditService, publisher)
	extractionUsecase := usecase.NewExtractionUsecase(db, log, healthEventRepo, rosterService, clarificationService, completionClient, publisher, cfg.LLM.Timeout)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	memberHandler := handler.NewMemberHandler(memberUsecase, customValidator)
	healthEventHandler := handler.NewHealthEventHandler(healthEventUsecase, customValidator)
	chatHandler := handler.NewChatHandler(extractionUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins...)

	// Initialize router
	router := deliveryHttp.NewRouter(
		cfg.Telemetry.ServiceName,
		log,
		authHandler,
		memberHandler,
		healthEventHandler,
		chatHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
		// chat requests wait on the completion endpoint
		WriteTimeout: cfg.LLM.Timeout + 15*time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	if err := app.Telemetry.Shutdown(ctx); err != nil {
		app.Log.Errorf("Failed to flush traces: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, broker, log file)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	if app.Publisher != nil {
		app.Publisher.Close()
	}

	if app.logFile != nil {
		app.logFile.Close()
	}
}
