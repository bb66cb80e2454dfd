package app

import (
	"context"
	"fmt"
	"time"

	"heartlink_backend/database"
	"heartlink_backend/internal/compat"
	"heartlink_backend/internal/config"
	"heartlink_backend/internal/email"
	"heartlink_backend/internal/handlers"
	"heartlink_backend/internal/logger"
	"heartlink_backend/internal/middleware"
	"heartlink_backend/internal/repositories"
	"heartlink_backend/internal/routes"
	"heartlink_backend/internal/services"
	"heartlink_backend/internal/validator"
	"heartlink_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	// Scoring configuration is validated once here; schema drift must
	// never surface as a per-request error.
	engineCfg := compat.DefaultConfig()
	if cfg.Questionnaire.MaxScale > 1 {
		engineCfg.MaxScale = cfg.Questionnaire.MaxScale
	}
	engine, err := compat.NewEngine(engineCfg)
	if err != nil {
		logger.Fatal("Invalid questionnaire schema configuration", "error", err)
	}
	logger.Info("Compatibility engine initialized", "max_scale", engineCfg.MaxScale)

	ginRouter, serviceContainer := SetupRouter(cfg, gormDB, engine)

	if cfg.Digest.Enabled {
		startDigestWorker(cfg, gormDB, serviceContainer)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter assembles repositories, services, handlers and the gin engine.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, engine *compat.Engine) (*gin.Engine, *services.ServiceContainer) {
	serviceContainer := initializeServices(cfg, engine)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, engine *compat.Engine) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	answerRepo := repositories.NewAnswerProfileRepository()

	var emailService email.Provider
	if cfg.Email.SMTPUsername != "" {
		smtp, err := email.NewSMTPProvider(email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			logger.Fatal("Failed to initialize SMTP provider", "error", err)
		}
		emailService = smtp
	} else {
		logger.Warn("SMTP is not configured, using mock email provider")
		emailService = &MockEmailProvider{}
	}

	return &services.ServiceContainer{
		AuthService:          services.NewAuthService(userRepo),
		CompatibilityService: services.NewCompatibilityService(engine, answerRepo, userRepo),
		EmailService:         emailService,
	}
}

func initializeHandlers(serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:          handlers.NewAuthHandler(base, serviceContainer.AuthService),
		CompatibilityHandler: handlers.NewCompatibilityHandler(base, serviceContainer.CompatibilityService),
	}
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.DBMiddleware(gormDB))

	return ginRouter
}

func startDigestWorker(cfg *config.Config, gormDB *gorm.DB, serviceContainer *services.ServiceContainer) {
	worker := workers.NewDigestWorker(
		gormDB,
		serviceContainer.CompatibilityService,
		repositories.NewAnswerProfileRepository(),
		repositories.NewUserRepository(),
		serviceContainer.EmailService,
		time.Duration(cfg.Digest.IntervalMinutes)*time.Minute,
		cfg.Digest.TopN,
		cfg.Digest.MinScore,
	)
	worker.Start(context.Background())
	logger.Info("Match digest worker started",
		"interval_minutes", cfg.Digest.IntervalMinutes,
		"top_n", cfg.Digest.TopN,
		"min_score", cfg.Digest.MinScore,
	)
}
