package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/logging"
	mwauth "github.com/Skotchmaster/shop_admin/internal/middleware/auth"
	"github.com/Skotchmaster/shop_admin/internal/service"
	"github.com/Skotchmaster/shop_admin/internal/transport"
)

const refreshCookieName = "refresh_token"

type AuthHTTP struct {
	Svc           *service.AuthService
	CookieMaxAge  time.Duration
	SecureCookies bool
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return err
	}

	sess, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(h.refreshCookie(sess.RefreshToken))
	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken: sess.AccessToken,
		User: transport.User{
			ID:       sess.User.ID,
			Username: sess.User.Username,
			Role:     sess.User.Role,
		},
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		logging.FromContext(ctx).Warn("refresh_failed", "status", 401, "reason", "no refresh cookie")
		return httpError(service.ErrNotAuthenticated)
	}

	sess, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(h.refreshCookie(sess.RefreshToken))
	return c.JSON(http.StatusOK, transport.AccessTokenResponse{AccessToken: sess.AccessToken})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		h.Svc.LogOut(c.Request().Context(), cookie.Value)
	}
	c.SetCookie(h.clearedCookie())
	return c.JSON(http.StatusOK, transport.OKResponse{OK: true})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	id, ok := mwauth.IdentityFrom(c)
	if !ok {
		return httpError(service.ErrNotAuthenticated)
	}
	return c.JSON(http.StatusOK, transport.MeResponse{User: transport.MeUser{
		UserID:   id.UserID,
		Username: id.Username,
		Role:     id.Role,
	}})
}

func (h *AuthHTTP) refreshCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.CookieMaxAge / time.Second),
		Expires:  time.Now().Add(h.CookieMaxAge),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteNoneMode,
	}
}

func (h *AuthHTTP) clearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteNoneMode,
	}
}
