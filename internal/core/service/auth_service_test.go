package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
	"github.com/complaintdesk/complaints-api/internal/infrastructure/db/memory"
)

type stubDenylist struct {
	revoked map[string]time.Duration
	err     error
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Duration)}
}

func (d *stubDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if d.err != nil {
		return d.err
	}
	d.revoked[jti] = ttl
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[jti]
	return ok, nil
}

func newAuthService(t *testing.T) (*AuthService, *memory.Store, *stubDenylist) {
	t.Helper()
	store := memory.New(memory.Options{})
	deny := newStubDenylist()
	svc := NewAuthService(store.Users, deny, AuthConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}, zerolog.Nop())
	return svc, store, deny
}

func seedUser(t *testing.T, store *memory.Store, username, password string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := store.Users.Create(context.Background(), &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Roles:        []string{"Customer", "Manager"},
		Active:       active,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func parseWith(t *testing.T, token, secret string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	return claims
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, store, _ := newAuthService(t)
	seedUser(t, store, "carol", "s3cret", true)

	pair, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if time.Until(pair.RefreshExpiresAt) <= 0 {
		t.Fatalf("refresh expiry must be in the future")
	}

	claims := parseWith(t, pair.AccessToken, "access")
	info, ok := claims["UserInfo"].(map[string]any)
	if !ok || info["username"] != "carol" {
		t.Fatalf("unexpected UserInfo claim: %+v", claims["UserInfo"])
	}
	roles, _ := info["roles"].([]any)
	if len(roles) != 2 || roles[0] != "Customer" {
		t.Fatalf("unexpected roles claim: %+v", info["roles"])
	}

	refresh := parseWith(t, pair.RefreshToken, "refresh")
	if refresh["username"] != "carol" || refresh["jti"] == "" {
		t.Fatalf("unexpected refresh claims: %+v", refresh)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, store, _ := newAuthService(t)
	seedUser(t, store, "dave", "goodpass", true)
	seedUser(t, store, "erin", "goodpass", false)

	if _, err := svc.Login(context.Background(), "", "x"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	cases := []struct{ user, pass string }{
		{"dave", "badpass"},
		{"ghost", "goodpass"},
		{"erin", "goodpass"},
	}
	for _, tc := range cases {
		if _, err := svc.Login(context.Background(), tc.user, tc.pass); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", tc.user, err)
		}
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, store, _ := newAuthService(t)
	seedUser(t, store, "carol", "s3cret", true)

	pair, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	parseWith(t, access, "access")

	if _, err := svc.Refresh(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for missing token, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("access token must not work as refresh token, got %v", err)
	}
}

func TestAuthService_Logout_RevokesRefreshToken(t *testing.T) {
	svc, store, deny := newAuthService(t)
	seedUser(t, store, "carol", "s3cret", true)

	pair, _ := svc.Login(context.Background(), "carol", "s3cret")
	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(deny.revoked) != 1 {
		t.Fatalf("expected one revoked token, got %d", len(deny.revoked))
	}
	for _, ttl := range deny.revoked {
		if ttl <= 0 || ttl > time.Hour {
			t.Fatalf("unexpected revocation ttl: %v", ttl)
		}
	}

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}

	if err := svc.Logout(context.Background(), "garbage"); err != nil {
		t.Fatalf("logout with invalid token should be a no-op, got %v", err)
	}
}

func TestAuthService_Refresh_DeactivatedUser(t *testing.T) {
	svc, store, _ := newAuthService(t)
	u := seedUser(t, store, "carol", "s3cret", true)

	pair, _ := svc.Login(context.Background(), "carol", "s3cret")

	u.Active = false
	if _, err := store.Users.Update(context.Background(), u); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Refresh_DenylistFailure(t *testing.T) {
	svc, store, deny := newAuthService(t)
	seedUser(t, store, "carol", "s3cret", true)
	pair, _ := svc.Login(context.Background(), "carol", "s3cret")

	deny.err = errors.New("redis down")
	_, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err == nil || errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected an infrastructure error, got %v", err)
	}
}

func TestNewAuthService_Defaults(t *testing.T) {
	svc := NewAuthService(nil, nil, AuthConfig{AccessSecret: "s"}, zerolog.Nop())
	if svc.cfg.AccessTTL != defaultAccessTTL || svc.cfg.RefreshTTL != defaultRefreshTTL {
		t.Fatalf("unexpected ttls: %+v", svc.cfg)
	}
	if svc.cfg.RefreshSecret != "s" {
		t.Fatalf("expected refresh secret to fall back to access secret")
	}
	if err := svc.Logout(context.Background(), "anything"); err != nil {
		t.Fatalf("logout without denylist must be a no-op, got %v", err)
	}
}
