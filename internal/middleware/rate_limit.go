package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dealhub/internal/cache"
	"dealhub/internal/config"
	"dealhub/internal/metrics"
	"dealhub/internal/model"
)

const rateLimitKeyPrefix = "rate_limit:"

// RateLimit enforces a per-identity fixed-window request budget keyed by
// role: admins get the largest budget, authenticated users less, anonymous
// callers the smallest. Counters live in Redis; when Redis is unavailable the
// limiter fails open.
func RateLimit(cacheClient *cache.Client, cfg *config.Config, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := "guest"
			identity := c.RealIP()
			if actor, ok := ActorFrom(c); ok {
				role = actor.Role
				identity = fmt.Sprintf("user:%d", actor.ID)
			}

			var limit int
			var message string
			switch role {
			case model.RoleAdmin:
				limit = cfg.AdminRateLimit
				message = "Admin rate limit exceeded. Please try again later."
			case model.RoleUser:
				limit = cfg.UserRateLimit
				message = "User rate limit exceeded. Please try again later."
			default:
				limit = cfg.GuestRateLimit
				message = "Guest rate limit exceeded. Please try again later."
			}

			window := time.Now().Unix() / int64(cfg.RateLimitWindow.Seconds())
			key := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, identity, window)

			count, _ := cacheClient.Incr(c.Request().Context(), key, cfg.RateLimitWindow)
			if count > int64(limit) {
				metrics.RateLimitedTotal.WithLabelValues(role).Inc()
				logger.Warn("rate limit exceeded",
					zap.String("role", role),
					zap.String("identity", identity),
					zap.String("path", c.Path()))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"success": false,
					"message": message,
				})
			}

			return next(c)
		}
	}
}
