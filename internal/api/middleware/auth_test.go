package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

func signAccess(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"UserInfo": map[string]any{
			"username": "alice",
			"roles":    []string{"Customer", "Manager"},
		},
		"exp": time.Now().Add(time.Minute).Unix(),
	}
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context, error, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := Auth("secret")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, c, err, called
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rec, c, err, called := runAuth(t, "Bearer "+signAccess(t, "secret", validClaims()))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("next not called, code %d", rec.Code)
	}
	if got := domain.ActorFromContext(c.Request().Context()); got != "alice" {
		t.Fatalf("expected actor alice on request context, got %q", got)
	}
	for _, key := range []string{"username", "roles"} {
		if v := c.Get(key); v != nil {
			t.Fatalf("identity must travel on the request context only, found %q=%v", key, v)
		}
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer "} {
		_, _, err, called := runAuth(t, header)
		if called {
			t.Fatalf("%q: next must not be called", header)
		}
		if code := statusOf(t, err); code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, code)
		}
	}
}

func TestAuthMiddleware_InvalidTokens(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	noExp := validClaims()
	delete(noExp, "exp")

	noUser := jwt.MapClaims{"exp": time.Now().Add(time.Minute).Unix()}

	cases := map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": signAccess(t, "other", validClaims()),
		"expired":      signAccess(t, "secret", expired),
		"no expiry":    signAccess(t, "secret", noExp),
		"no user info": signAccess(t, "secret", noUser),
	}
	for name, token := range cases {
		_, _, err, called := runAuth(t, "Bearer "+token)
		if called {
			t.Fatalf("%s: next must not be called", name)
		}
		if code := statusOf(t, err); code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", name, code)
		}
	}
}
