package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"donorlink/database"
	"donorlink/internal/auth"
	"donorlink/internal/config"
	"donorlink/internal/dedupe"
	"donorlink/internal/handlers"
	"donorlink/internal/logger"
	"donorlink/internal/middleware"
	"donorlink/internal/routes"
	"donorlink/internal/services"
	"donorlink/internal/validator"
	"donorlink/ws"
)

// SetupRouter собирает приложение поверх готового подключения к БД.
// Вынесено из Run, чтобы интеграционные тесты могли поднять роутер
// на своей тестовой базе.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	auth.Init(cfg.JWT.Secret, cfg.TokenTTL())

	manager := ws.NewManager()
	go manager.Run()

	// redis опционален: без него дедупликация деградирует до
	// мягкой проверки по БД
	var marker services.DedupeMarker
	if cfg.Redis.URL != "" {
		m, err := dedupe.New(cfg.Redis.URL)
		if err != nil {
			logger.Warn("redis unavailable, notification dedupe falls back to store check", "error", err)
		} else {
			marker = m
		}
	}

	svc := services.NewServiceContainer(db, services.ContainerOptions{
		Pusher:           manager,
		Marker:           marker,
		DedupeWindow:     cfg.DedupeWindow(),
		MaxMessageLength: cfg.Chat.MaxMessageLength,
		HistoryPageLimit: cfg.Chat.HistoryPageLimit,
	})

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())

	h := handlers.NewAppHandlers(svc, manager, validator.New())
	routes.RegisterRoutes(router, h)

	return router
}

// Run - точка входа сервера
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	router := SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "addr", addr, "env", cfg.Server.Env)
	return router.Run(addr)
}
