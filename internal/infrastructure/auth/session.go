package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/itou/backend/internal/infrastructure/config"
)

const sessionIssuer = "itou"

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid session token")
	ErrExpiredToken     = errors.New("session has expired")
	ErrTokenNotYetValid = errors.New("session is not yet valid")
	ErrMissingUserID    = errors.New("missing user id in session")
	ErrSessionRevoked   = errors.New("session has been revoked")
)

// Claims are the signed content of the session cookie
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	Kind     string `json:"kind"`
}

// RemainingTTL returns the time left before the session expires
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if remaining := time.Until(c.ExpiresAt.Time); remaining > 0 {
		return remaining
	}
	return 0
}

// Session is an issued session cookie value
type Session struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// SessionService signs and verifies browser session tokens (HS256)
type SessionService struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionService creates a new SessionService
func NewSessionService(cfg config.AuthConfig) *SessionService {
	return &SessionService{
		secret: []byte(cfg.SessionSecret),
		ttl:    cfg.SessionTTL,
	}
}

// TTL returns the lifetime of new sessions
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a session for the user
func (s *SessionService) Issue(userID int64, username, kind string) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	id := uuid.NewString()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    sessionIssuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   userID,
		Username: username,
		Kind:     kind,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ID: id, ExpiresAt: expiresAt}, nil
}

// Parse verifies a session token and returns its claims
func (s *SessionService) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return nil, ErrMissingUserID
	}
	return claims, nil
}
