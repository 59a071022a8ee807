package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
	"github.com/complaintdesk/complaints-api/internal/core/ports"
)

// RefreshCookie is the cookie that carries the refresh token.
const RefreshCookie = "jwt"

type AuthHandler struct {
	authService ports.AuthService
	// secureCookie marks the refresh cookie Secure with SameSite=None.
	secureCookie bool
}

func NewAuthHandler(authService ports.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// Login authenticates a user, returns an access token and sets the refresh cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  accessTokenResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /auth [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.cookie(pair.RefreshToken, pair.RefreshExpiresAt))
	return c.JSON(http.StatusOK, accessTokenResponse{AccessToken: pair.AccessToken})
}

// Refresh issues a new access token from the refresh cookie.
//
// @Summary      Refresh access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  accessTokenResponse
// @Failure      401  {object}  messageResponse
// @Router       /auth/refresh [get]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		return domain.Unauthorized("Unauthorized")
	}

	access, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accessTokenResponse{AccessToken: access})
}

// Logout revokes the refresh token and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
		return err
	}

	c.SetCookie(h.cookie("", time.Unix(0, 0)))
	return c.JSON(http.StatusOK, messageResponse{Message: "Cookie cleared"})
}

func (h *AuthHandler) cookie(value string, expires time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     RefreshCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		ck.MaxAge = -1
	}
	if h.secureCookie {
		ck.Secure = true
		ck.SameSite = http.SameSiteNoneMode
	}
	return ck
}
