package app

import (
	"context"
	"fmt"

	"reelmates_backend/internal/config"
	"reelmates_backend/internal/database"
	"reelmates_backend/internal/email"
	"reelmates_backend/internal/handlers"
	"reelmates_backend/internal/identity"
	"reelmates_backend/internal/logger"
	"reelmates_backend/internal/middleware"
	"reelmates_backend/internal/realtime"
	"reelmates_backend/internal/repositories"
	"reelmates_backend/internal/routes"
	"reelmates_backend/internal/services"
	"reelmates_backend/internal/validator"
	"reelmates_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	hub := realtime.NewHub()
	publisher := setupRealtime(cfg, hub)

	ginRouter := SetupRouter(cfg, gormDB, hub, publisher)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// setupRealtime picks the insert publisher: redis-bridged when configured,
// in-process otherwise.
func setupRealtime(cfg *config.Config, hub *realtime.Hub) realtime.Publisher {
	if cfg.Redis.Addr == "" {
		logger.Info("Realtime feed running in-process only (no redis configured)")
		return hub
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	broker := realtime.NewBroker(rdb, hub)
	go broker.Run(context.Background())
	logger.Info("Realtime feed bridged over redis", "addr", cfg.Redis.Addr)
	return broker
}

// SetupRouter wires repositories, services and handlers onto a gin engine.
// Split out from Run so tests can mount the same router on httptest.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, hub *realtime.Hub, publisher realtime.Publisher) *gin.Engine {
	userRepo := repositories.NewUserRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	var emailProvider email.Provider
	if cfg.Email.SMTPHost != "" {
		provider, err := email.NewSMTPProvider(email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			logger.Fatal("Failed to initialize email provider", "error", err)
		}
		emailProvider = provider
		logger.Info("Email provider initialized", "host", cfg.Email.SMTPHost)
	}

	authService := services.NewAuthService(userRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, publisher, emailProvider)

	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	resolver := identity.NewResolver(cfg.Notifications.FallbackUserID)

	appHandlers := &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, authService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, notificationService, resolver),
	}

	wsHandler := ws.NewHandler(hub)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())

	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}
