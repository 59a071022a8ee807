package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
	"github.com/complaintdesk/complaints-api/internal/core/ports"
	"github.com/complaintdesk/complaints-api/internal/pkg/metrics"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// AuthConfig holds token secrets and lifetimes. RefreshSecret falls back to
// AccessSecret when empty.
type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// AuthService implements login, refresh and logout.
type AuthService struct {
	users    ports.UserRepository
	denylist ports.TokenDenylist
	cfg      AuthConfig
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAuthService returns an AuthService. denylist may be nil, in which case
// logout only clears the client cookie.
func NewAuthService(users ports.UserRepository, denylist ports.TokenDenylist, cfg AuthConfig, logger zerolog.Logger) *AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = cfg.AccessSecret
	}
	return &AuthService{users: users, denylist: denylist, cfg: cfg, logger: logger, now: time.Now}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.TokenPair, error) {
	if username == "" || password == "" {
		return nil, domain.Validation("All fields are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("unauthorized").Inc()
			return nil, domain.Unauthorized("Unauthorized")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.Active {
		metrics.LoginsTotal.WithLabelValues("unauthorized").Inc()
		return nil, domain.Unauthorized("Unauthorized")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("unauthorized").Inc()
		return nil, domain.Unauthorized("Unauthorized")
	}

	access, err := s.accessToken(user)
	if err != nil {
		return nil, err
	}

	refreshExp := s.now().Add(s.cfg.RefreshTTL)
	refresh, err := s.sign(jwt.MapClaims{
		"username": user.Username,
		"jti":      uuid.NewString(),
		"iat":      s.now().Unix(),
		"exp":      refreshExp.Unix(),
	}, s.cfg.RefreshSecret)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.logger.Info().Str("username", user.Username).Msg("user logged in")
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh, RefreshExpiresAt: refreshExp}, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.Unauthorized("Unauthorized")
	}

	claims, err := s.parseRefresh(refreshToken)
	if err != nil {
		return "", domain.Unauthorized("Unauthorized")
	}

	if jti, _ := claims["jti"].(string); jti != "" && s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, jti)
		if err != nil {
			return "", fmt.Errorf("check revoked token: %w", err)
		}
		if revoked {
			return "", domain.Unauthorized("Unauthorized")
		}
	}

	username, _ := claims["username"].(string)
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.Unauthorized("Unauthorized")
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if !user.Active {
		return "", domain.Unauthorized("Unauthorized")
	}

	return s.accessToken(user)
}

// Logout revokes the refresh token until it would have expired. Invalid or
// already expired tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" || s.denylist == nil {
		return nil
	}

	claims, err := s.parseRefresh(refreshToken)
	if err != nil {
		return nil
	}

	jti, _ := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if jti == "" || err != nil || exp == nil {
		return nil
	}

	ttl := exp.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, jti, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) accessToken(user *domain.User) (string, error) {
	return s.sign(jwt.MapClaims{
		"UserInfo": map[string]any{
			"username": user.Username,
			"roles":    user.Roles,
		},
		"iat": s.now().Unix(),
		"exp": s.now().Add(s.cfg.AccessTTL).Unix(),
	}, s.cfg.AccessSecret)
}

func (s *AuthService) sign(claims jwt.MapClaims, secret string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseRefresh(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.cfg.RefreshSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
