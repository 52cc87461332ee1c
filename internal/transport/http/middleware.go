package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/service"
	"github.com/explorekarawang/directory-api/internal/util"
)

const (
	contextAdminKey  = "auth.admin"
	contextTokenKey  = "auth.token"
	contextDeviceKey = "device.id"
)

// sessionToken reads the admin session from the cookie, falling back to a
// bearer Authorization header.
func sessionToken(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return strings.TrimSpace(cookie.Value)
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// LoadAdmin attaches the signed-in admin, if any, without rejecting anonymous
// callers.
func LoadAdmin(auth *service.AuthService, cookieName string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c, cookieName)
			if token == "" {
				return next(c)
			}
			user, err := auth.Authenticate(c.Request().Context(), token)
			switch {
			case err == nil:
				c.Set(contextAdminKey, user)
				c.Set(contextTokenKey, token)
			case !errors.Is(err, service.ErrUnauthenticated):
				logger.Warn("session lookup failed", zap.Error(err))
			}
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentAdmin(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.Error(service.ErrUnauthenticated.Error()))
			}
			if !user.IsAdmin() {
				return c.JSON(http.StatusForbidden, util.Error("admin privileges required"))
			}
			return next(c)
		}
	}
}

func CurrentAdmin(c echo.Context) (*domain.AdminUser, bool) {
	user, ok := c.Get(contextAdminKey).(*domain.AdminUser)
	return user, ok && user != nil
}
