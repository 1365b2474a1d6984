// Package identity holds the authentication use cases: API tokens for
// partner clients and signed session cookies for browsers.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/itou/backend/internal/domain/identity"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Authentication errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Unable to log in with provided credentials.")
	ErrInvalidAPIToken    = shared.NewDomainError("UNAUTHORIZED", "Invalid token.")
	ErrInvalidSession     = shared.NewDomainError("UNAUTHORIZED", "Session is invalid or has expired.")
)

// AuthService handles authentication operations
type AuthService struct {
	users    identity.UserRepository
	tokens   identity.TokenRepository
	sessions *auth.SessionService
	denyList auth.SessionDenyList
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	tokens identity.TokenRepository,
	sessions *auth.SessionService,
	denyList auth.SessionDenyList,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		denyList: denyList,
		logger:   logger,
		now:      time.Now,
	}
}

// authenticate checks the credentials. Unknown users, wrong passwords and
// inactive accounts all give ErrInvalidCredentials.
func (s *AuthService) authenticate(ctx context.Context, input CredentialsInput) (*identity.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByLogin(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown user", zap.String("username", input.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	if !user.CanLogin() {
		s.logger.Warn("Login attempt for inactive account", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ObtainToken returns the API token of the user, creating it on first use
func (s *AuthService) ObtainToken(ctx context.Context, input CredentialsInput) (*TokenResult, error) {
	user, err := s.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.FindByUserID(ctx, user.ID)
	if err == nil {
		return &TokenResult{Token: token.Key}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	token, err = identity.NewAPIToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		// Lost a race with a concurrent request of the same user
		if errors.Is(err, shared.ErrAlreadyExists) {
			existing, findErr := s.tokens.FindByUserID(ctx, user.ID)
			if findErr != nil {
				return nil, findErr
			}
			return &TokenResult{Token: existing.Key}, nil
		}
		return nil, err
	}

	s.logger.Info("API token created", zap.Int64("user_id", user.ID))
	return &TokenResult{Token: token.Key}, nil
}

// Login authenticates a browser user and issues a session
func (s *AuthService) Login(ctx context.Context, input CredentialsInput) (*LoginResult, error) {
	user, err := s.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Issue(user.ID, user.Username, string(user.Kind))
	if err != nil {
		return nil, err
	}

	user.RecordLogin(s.now())
	if err := s.users.Update(ctx, user); err != nil {
		// Don't fail the login
		s.logger.Error("Failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return &LoginResult{
		SessionToken: session.Token,
		SessionID:    session.ID,
		ExpiresAt:    session.ExpiresAt,
		User: UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			FullName: user.FullName(),
			Kind:     string(user.Kind),
		},
	}, nil
}

// Logout revokes the session until it would have expired. Invalid or
// expired sessions need no revocation.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.SessionToken == "" {
		return nil
	}
	claims, err := s.sessions.Parse(input.SessionToken)
	if err != nil {
		return nil
	}
	if err := s.denyList.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return err
	}
	s.logger.Info("User logged out", zap.Int64("user_id", claims.UserID))
	return nil
}

// AuthenticateToken resolves an "Authorization: Token <key>" header value
func (s *AuthService) AuthenticateToken(ctx context.Context, key string) (*Principal, error) {
	token, err := s.tokens.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidAPIToken
		}
		return nil, err
	}
	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidAPIToken
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("UNAUTHORIZED", "User inactive or deleted.")
	}
	return &Principal{UserID: user.ID, Username: user.Username, ViaToken: true}, nil
}

// AuthenticateSession resolves a session cookie value. The session owner
// must still be allowed to log in.
func (s *AuthService) AuthenticateSession(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil, ErrInvalidSession
	}
	revoked, err := s.denyList.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidSession
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if !user.CanLogin() {
		s.logger.Warn("Session of an inactive account", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidSession
	}
	return &Principal{UserID: user.ID, Username: user.Username, SessionID: claims.ID}, nil
}
