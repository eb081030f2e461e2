package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"tourcatalog/internal/auth"
	"tourcatalog/internal/config"
	"tourcatalog/internal/errors"
	"tourcatalog/internal/handler"
	"tourcatalog/internal/metrics"
	"tourcatalog/internal/model"
)

// Forgot-password requests allowed per client IP and window.
const (
	forgotPasswordLimit  = 5
	forgotPasswordWindow = 15 * time.Minute
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Catalog          *handler.CatalogHandler
	Auth             *handler.AuthHandler
	PasswordReset    *handler.PasswordResetHandler
	AdminAttractions *handler.AdminAttractionHandler
	AdminCatalog     *handler.AdminCatalogHandler
	Users            *handler.UserHandler
	Import           *handler.ImportHandler
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	limiter WindowCounter,
	database Pinger,
	h Handlers,
) {
	e.IPExtractor = clientIPExtractor(cfg.TrustedProxies, logger)

	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger.With(slog.String("component", "http"))))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(metrics.Middleware())

	e.Validator = handler.NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		if err := database.Ping(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, errors.ErrorResponse{
				Error: "database unavailable",
				Code:  "UNAVAILABLE",
			}).SetInternal(err)
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public catalog
	api.GET("/attractions", h.Catalog.ListAttractions)
	api.GET("/attractions/:id", h.Catalog.GetAttraction)
	api.GET("/categories", h.Catalog.ListCategories)
	api.GET("/metro-stations", h.Catalog.ListMetroStations)

	// Authentication and password recovery
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", h.Auth.Logout)
	authGroup.POST("/forgot-password", h.PasswordReset.ForgotPassword,
		rateLimit(limiter, "forgot_password", forgotPasswordLimit, forgotPasswordWindow, logger))
	authGroup.GET("/reset-password/validate", h.PasswordReset.ValidateResetToken)
	authGroup.POST("/reset-password", h.PasswordReset.ResetPassword)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "INVALID_TOKEN",
			}).SetInternal(err)
		},
	}), accessTokenOnly)

	secured.GET("/me", h.Auth.Me)

	// Admin CMS
	admin := secured.Group("/admin", requireRole(model.RoleAdmin))

	admin.GET("/attractions", h.AdminAttractions.List)
	admin.POST("/attractions", h.AdminAttractions.Create)
	admin.GET("/attractions/:id", h.AdminAttractions.Get)
	admin.PUT("/attractions/:id", h.AdminAttractions.Update)
	admin.PUT("/attractions/:id/publish", h.AdminAttractions.SetPublished)
	admin.DELETE("/attractions/:id", h.AdminAttractions.Delete)

	admin.POST("/categories", h.AdminCatalog.CreateCategory)
	admin.PUT("/categories/:id", h.AdminCatalog.UpdateCategory)
	admin.DELETE("/categories/:id", h.AdminCatalog.DeleteCategory)

	admin.POST("/metro-stations", h.AdminCatalog.CreateMetroStation)
	admin.PUT("/metro-stations/:id", h.AdminCatalog.UpdateMetroStation)
	admin.DELETE("/metro-stations/:id", h.AdminCatalog.DeleteMetroStation)

	admin.GET("/users", h.Users.ListUsers)
	admin.GET("/users/:id", h.Users.GetUser)
	admin.PUT("/users/:id/active", h.Users.SetActive)

	admin.POST("/import", h.Import.Import)
}
