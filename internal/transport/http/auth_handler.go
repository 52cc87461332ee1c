package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/service"
	"github.com/explorekarawang/directory-api/internal/util"
)

type SessionCookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	auth   *service.AuthService
	cookie SessionCookieConfig
	logger *zap.Logger
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, cookie SessionCookieConfig, logger *zap.Logger) {
	h := &AuthHandler{auth: auth, cookie: cookie, logger: logger}

	g := e.Group("/api/auth")
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.GET("/me", h.me, RequireAdmin())
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	result, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	c.SetCookie(h.sessionCookie(result.Token, result.ExpiresAt))
	return c.JSON(http.StatusOK, util.Success("user", result.User, "expires_at", result.ExpiresAt))
}

func (h *AuthHandler) logout(c echo.Context) error {
	token, _ := c.Get(contextTokenKey).(string)
	if token == "" {
		token = sessionToken(c, h.cookie.Name)
	}
	if err := h.auth.Logout(c.Request().Context(), token); err != nil {
		return respondError(c, h.logger, err)
	}
	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))
	return c.JSON(http.StatusOK, util.Success())
}

func (h *AuthHandler) me(c echo.Context) error {
	user, _ := CurrentAdmin(c)
	return c.JSON(http.StatusOK, util.Success("user", user))
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}
