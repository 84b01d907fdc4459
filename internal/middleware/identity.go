package middleware

import (
	"github.com/labstack/echo/v4"

	"dealhub/internal/auth"
	apperrors "dealhub/internal/errors"
)

// ActorKey is the echo context key holding the authenticated auth.Actor.
const ActorKey = "actor"

// Identity reads the identity cookie and, when it carries a valid non-revoked
// token, attaches the actor to the request context. Requests without a usable
// token proceed anonymously; endpoints that need an identity reject them
// later.
func Identity(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := jwtService.ValidateToken(cookie.Value)
			if err != nil {
				return next(c)
			}

			if revoked, _ := tokenStore.IsTokenRevoked(c.Request().Context(), claims.ID); revoked {
				return next(c)
			}

			c.Set(ActorKey, claims.Actor())
			return next(c)
		}
	}
}

// RequireAuth rejects requests that carry no authenticated actor.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := c.Get(ActorKey).(auth.Actor); !ok {
			status, _, message := apperrors.MapToHTTP(apperrors.Unauthenticated("authentication required"))
			return c.JSON(status, echo.Map{"success": false, "message": message})
		}
		return next(c)
	}
}

// ActorFrom returns the authenticated actor attached to the context.
func ActorFrom(c echo.Context) (auth.Actor, bool) {
	actor, ok := c.Get(ActorKey).(auth.Actor)
	return actor, ok
}
