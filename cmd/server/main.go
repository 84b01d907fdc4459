package main

import (
	"log"
	"net/http"
	"os"

	_ "dealhub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"dealhub/internal/auth"
	"dealhub/internal/cache"
	"dealhub/internal/config"
	"dealhub/internal/db"
	"dealhub/internal/handler"
	"dealhub/internal/model"
	"dealhub/internal/repository"
	"dealhub/internal/router"
	"dealhub/internal/service"
)

// @title Dealhub API
// @version 1.0
// @description Peer-to-peer marketplace API with listings, deal negotiation and threaded messaging.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	e := echo.New()
	e.Use(echomiddleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		logger.Info("RESET_DB=true detected, dropping all tables")
		tables := []interface{}{
			&model.DealMessage{},
			&model.Deal{},
			&model.Listing{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				logger.Warn("failed to drop table (may not exist)", zap.Error(err))
			}
		}
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Listing{},
		&model.Deal{},
		&model.DealMessage{},
	); err != nil {
		logger.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	listingRepo := repository.NewListingRepository(gormDB)
	dealRepo := repository.NewDealRepository(gormDB)
	messageRepo := repository.NewDealMessageRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, logger)
	userService := service.NewUserService(userRepo, listingRepo, dealRepo, cfg.AllowUserDeleteWithRefs, logger)
	listingService := service.NewListingService(listingRepo, cacheClient, logger)
	dealService := service.NewDealService(dealRepo, listingRepo, messageRepo, cacheClient, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	userHandler := handler.NewUserHandler(userService)
	listingHandler := handler.NewListingHandler(listingService)
	dealHandler := handler.NewDealHandler(dealService)

	// Register routes
	router.Register(
		e,
		cfg,
		cacheClient,
		jwtService,
		tokenStore,
		logger,
		authHandler,
		userHandler,
		listingHandler,
		dealHandler,
	)

	addr := ":" + cfg.ServerPort
	logger.Info("starting server", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server start", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
