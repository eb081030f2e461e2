package router

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tourcatalog/internal/errors"
	"tourcatalog/internal/handler"
	"tourcatalog/internal/metrics"
)

// requestLogger writes one access log line per request, at warn for client
// errors and error for server errors.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("duration", v.Latency),
				slog.String("remote", v.RemoteIP),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			ctx := c.Request().Context()
			switch {
			case v.Status >= 500:
				logger.LogAttrs(ctx, slog.LevelError, "request", attrs...)
			case v.Status >= 400:
				logger.LogAttrs(ctx, slog.LevelWarn, "request", attrs...)
			default:
				logger.LogAttrs(ctx, slog.LevelInfo, "request", attrs...)
			}
			return nil
		},
	})
}

// clientIPExtractor decides which address c.RealIP reports. With no trusted
// proxies only the socket peer counts, so forwarding headers cannot be
// spoofed; otherwise X-Forwarded-For is walked back through the listed
// ranges. Malformed ranges are logged and skipped.
func clientIPExtractor(trustedProxies []string, logger *slog.Logger) echo.IPExtractor {
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	trusted := 0
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			logger.Warn("ignoring trusted proxy", slog.String("cidr", cidr), slog.Any("error", err))
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
		trusted++
	}
	if trusted == 0 {
		return echo.ExtractIPDirect()
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// WindowCounter counts hits of a key inside a fixed time window.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// rateLimit allows limit requests per client IP and window on one route.
// When the counter backend fails the request is let through.
func rateLimit(counter WindowCounter, route string, limit int64, window time.Duration, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ratelimit:" + route + ":" + c.RealIP()
			hits, err := counter.IncrWindow(c.Request().Context(), key, window)
			if err != nil {
				logger.WarnContext(c.Request().Context(), "rate limiter unavailable",
					slog.String("route", route),
					slog.Any("error", err),
				)
				return next(c)
			}
			if hits > limit {
				metrics.RateLimitedTotal.WithLabelValues(route).Inc()
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
					Error: "too many requests, try again later",
					Code:  "RATE_LIMITED",
				})
			}
			return next(c)
		}
	}
}

// accessTokenOnly rejects refresh tokens presented as bearer tokens.
func accessTokenOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := handler.CurrentClaims(c)
		if !ok || claims.ID != "" {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "INVALID_TOKEN",
			})
		}
		return next(c)
	}
}

// requireRole allows only callers whose token carries role.
func requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := handler.CurrentClaims(c)
			if !ok || claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "insufficient permissions",
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}
