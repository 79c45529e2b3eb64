package biz

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
)

type AuthConfig struct {
	SecretKey  string        `conf:"secret_key" yaml:"secret_key" json:"-" env:"SECRET_KEY"`
	SessionTTL time.Duration `conf:"session_ttl" yaml:"session_ttl" json:"session_ttl" env:"SESSION_TTL"`
}

type AuthServiceParams struct {
	fx.In

	Config AuthConfig
}

type AuthService struct {
	config AuthConfig
}

func NewAuthService(params AuthServiceParams) *AuthService {
	return &AuthService{
		config: params.Config,
	}
}

// GenerateSessionToken signs a session JWT whose subject is the
// identity-provider user id.
func (s *AuthService) GenerateSessionToken(workosUserID string) (string, error) {
	ttl := s.config.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   workosUserID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	tokenString, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ParseSessionToken validates a session JWT and returns the
// identity-provider user id it was issued for.
func (s *AuthService) ParseSessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v: %w", t.Header["alg"], ErrInvalidJWT)
		}

		return []byte(s.config.SecretKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", ErrInvalidJWT)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidJWT
	}

	return subject, nil
}
