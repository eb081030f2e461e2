package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/labstack/echo/v4"

	"tourcatalog/docs"
	"tourcatalog/internal/auth"
	"tourcatalog/internal/cache"
	"tourcatalog/internal/config"
	"tourcatalog/internal/db"
	"tourcatalog/internal/handler"
	"tourcatalog/internal/logging"
	"tourcatalog/internal/mailer"
	"tourcatalog/internal/repository"
	"tourcatalog/internal/router"
	"tourcatalog/internal/service"
)

// @title Tourist Attraction Catalog API
// @version 1.0
// @description Public attraction catalog with search, admin CMS, JWT authentication and password recovery.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		fatal(logger, "database init", err)
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.DropAll(gormDB); err != nil {
			fatal(logger, "drop tables", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		fatal(logger, "auto-migrate", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	store := repository.NewStore(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	mail := mailer.NewClient(cfg.PostmarkToken, cfg.MailFrom)
	if !mail.Configured() {
		logger.Warn("POSTMARK_SERVER_TOKEN not set, password reset emails will not be delivered")
	}

	// Initialize services
	catalogService := service.NewCatalogService(store, cacheClient, logger)
	queryService := service.NewAttractionQueryService(store.Attractions, logger)
	adminService := service.NewAttractionAdminService(store, logger)
	importService := service.NewImportService(store, catalogService, logger)
	authService := service.NewAuthService(store.Users, jwtService, tokenStore)
	userService := service.NewUserService(store.Users, cacheClient)
	resetService := service.NewPasswordResetService(store.Users, mail, cfg.ClientOrigin, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, logger, cacheClient, store, router.Handlers{
		Catalog:          handler.NewCatalogHandler(queryService, catalogService),
		Auth:             handler.NewAuthHandler(authService),
		PasswordReset:    handler.NewPasswordResetHandler(resetService, logger),
		AdminAttractions: handler.NewAdminAttractionHandler(adminService),
		AdminCatalog:     handler.NewAdminCatalogHandler(catalogService),
		Users:            handler.NewUserHandler(userService),
		Import:           handler.NewImportHandler(importService),
	})

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		// SwaggerHost may already include a scheme.
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
		docs.SwaggerInfo.Host = host
		if host == cfg.SwaggerHost {
			swaggerURL = "http://" + host + "/swagger/index.html"
		} else {
			swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
		}
	}

	addr := ":" + cfg.ServerPort
	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("swagger", swaggerURL))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			fatal(logger, "server start", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
