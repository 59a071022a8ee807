package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

// Auth validates the bearer access token. A missing header is 401; a token
// that fails verification or has expired is 403 so clients know to refresh.
// On success the username becomes the request's audit actor.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}

			info, _ := claims["UserInfo"].(map[string]any)
			username, _ := info["username"].(string)
			if username == "" {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithActor(req.Context(), username)))

			return next(c)
		}
	}
}
