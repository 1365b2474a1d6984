package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itou/backend/internal/domain/identity"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/infrastructure/auth"
	"github.com/itou/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, login string) (*identity.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []int64) ([]identity.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockTokenRepository is a mock implementation of identity.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) FindByKey(ctx context.Context, key string) (*identity.APIToken, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.APIToken), args.Error(1)
}

func (m *MockTokenRepository) FindByUserID(ctx context.Context, userID int64) (*identity.APIToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.APIToken), args.Error(1)
}

func (m *MockTokenRepository) Create(ctx context.Context, token *identity.APIToken) error {
	return m.Called(ctx, token).Error(0)
}

type authFixture struct {
	service  *AuthService
	users    *MockUserRepository
	tokens   *MockTokenRepository
	sessions *auth.SessionService
	denyList *auth.InMemorySessionDenyList
}

func newAuthFixture(t *testing.T) *authFixture {
	f := &authFixture{
		users:    new(MockUserRepository),
		tokens:   new(MockTokenRepository),
		sessions: auth.NewSessionService(config.AuthConfig{SessionSecret: "test-secret-key-at-least-32-chars!!", SessionTTL: time.Hour}),
		denyList: auth.NewInMemorySessionDenyList(),
	}
	f.service = NewAuthService(f.users, f.tokens, f.sessions, f.denyList, zaptest.NewLogger(t))
	return f
}

func createTestUser(t *testing.T, id int64) *identity.User {
	t.Helper()
	user, err := identity.NewUser(identity.UserKindSiaeStaff, "employer", "employer@example.com", "password123")
	require.NoError(t, err)
	user.ID = id
	user.FirstName = "Claire"
	user.LastName = "Martin"
	return user
}

func TestAuthService_ObtainToken(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the existing token", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByLogin", ctx, "employer").Return(createTestUser(t, 1), nil)
		f.tokens.On("FindByUserID", ctx, int64(1)).Return(&identity.APIToken{Key: "existing", UserID: 1}, nil)

		result, err := f.service.ObtainToken(ctx, CredentialsInput{Username: "employer", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "existing", result.Token)
		f.tokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates a token on first use", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByLogin", ctx, "employer@example.com").Return(createTestUser(t, 1), nil)
		f.tokens.On("FindByUserID", ctx, int64(1)).Return(nil, shared.ErrNotFound)
		f.tokens.On("Create", ctx, mock.MatchedBy(func(tok *identity.APIToken) bool {
			return tok.UserID == 1 && len(tok.Key) == 40
		})).Return(nil)

		result, err := f.service.ObtainToken(ctx, CredentialsInput{Username: "employer@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Len(t, result.Token, 40)
	})

	t.Run("returns the concurrent token after a duplicate", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByLogin", ctx, "employer").Return(createTestUser(t, 1), nil)
		f.tokens.On("FindByUserID", ctx, int64(1)).Return(nil, shared.ErrNotFound).Once()
		f.tokens.On("Create", ctx, mock.Anything).Return(shared.ErrAlreadyExists)
		f.tokens.On("FindByUserID", ctx, int64(1)).Return(&identity.APIToken{Key: "winner", UserID: 1}, nil).Once()

		result, err := f.service.ObtainToken(ctx, CredentialsInput{Username: "employer", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "winner", result.Token)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByLogin", ctx, "employer").Return(createTestUser(t, 1), nil)

		_, err := f.service.ObtainToken(ctx, CredentialsInput{Username: "employer", Password: "wrong-password"})
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByLogin", ctx, "nobody").Return(nil, shared.ErrNotFound)

		_, err := f.service.ObtainToken(ctx, CredentialsInput{Username: "nobody", Password: "password123"})
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
	})

	t.Run("rejects an inactive user", func(t *testing.T) {
		f := newAuthFixture(t)
		user := createTestUser(t, 1)
		user.IsActive = false
		f.users.On("FindByLogin", ctx, "employer").Return(user, nil)

		_, err := f.service.ObtainToken(ctx, CredentialsInput{Username: "employer", Password: "password123"})
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
	})

	t.Run("rejects empty credentials without lookup", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.service.ObtainToken(ctx, CredentialsInput{Username: "employer"})
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
		f.users.AssertNotCalled(t, "FindByLogin", mock.Anything, mock.Anything)
	})
}

func TestAuthService_LoginLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	user := createTestUser(t, 7)
	f.users.On("FindByLogin", ctx, "employer").Return(user, nil)
	f.users.On("Update", ctx, user).Return(errors.New("db down"))
	f.users.On("FindByID", ctx, int64(7)).Return(user, nil)

	result, err := f.service.Login(ctx, CredentialsInput{Username: "employer", Password: "password123"})
	require.NoError(t, err, "a failed last-login update must not fail the login")
	assert.Equal(t, int64(7), result.User.ID)
	assert.Equal(t, "Claire Martin", result.User.FullName)
	assert.NotNil(t, user.LastLoginAt)

	principal, err := f.service.AuthenticateSession(ctx, result.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), principal.UserID)
	assert.False(t, principal.ViaToken)

	require.NoError(t, f.service.Logout(ctx, LogoutInput{SessionToken: result.SessionToken}))

	_, err = f.service.AuthenticateSession(ctx, result.SessionToken)
	assert.True(t, errors.Is(err, ErrInvalidSession))
}

func TestAuthService_AuthenticateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects the session of a deactivated user", func(t *testing.T) {
		f := newAuthFixture(t)
		session, err := f.sessions.Issue(4, "employer", "SIAE_STAFF")
		require.NoError(t, err)
		user := createTestUser(t, 4)
		user.IsActive = false
		f.users.On("FindByID", ctx, int64(4)).Return(user, nil)

		_, err = f.service.AuthenticateSession(ctx, session.Token)
		assert.True(t, errors.Is(err, ErrInvalidSession))
	})

	t.Run("rejects the session of a deleted user", func(t *testing.T) {
		f := newAuthFixture(t)
		session, err := f.sessions.Issue(5, "employer", "SIAE_STAFF")
		require.NoError(t, err)
		f.users.On("FindByID", ctx, int64(5)).Return(nil, shared.ErrNotFound)

		_, err = f.service.AuthenticateSession(ctx, session.Token)
		assert.True(t, errors.Is(err, ErrInvalidSession))
	})

	t.Run("does not look up revoked sessions", func(t *testing.T) {
		f := newAuthFixture(t)
		session, err := f.sessions.Issue(6, "employer", "SIAE_STAFF")
		require.NoError(t, err)
		claims, err := f.sessions.Parse(session.Token)
		require.NoError(t, err)
		require.NoError(t, f.denyList.Revoke(ctx, claims.ID, time.Hour))

		_, err = f.service.AuthenticateSession(ctx, session.Token)
		assert.True(t, errors.Is(err, ErrInvalidSession))
		f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Logout_IgnoresInvalidSessions(t *testing.T) {
	f := newAuthFixture(t)
	assert.NoError(t, f.service.Logout(context.Background(), LogoutInput{}))
	assert.NoError(t, f.service.Logout(context.Background(), LogoutInput{SessionToken: "garbage"}))
}

func TestAuthService_AuthenticateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the token owner", func(t *testing.T) {
		f := newAuthFixture(t)
		f.tokens.On("FindByKey", ctx, "key").Return(&identity.APIToken{Key: "key", UserID: 3}, nil)
		f.users.On("FindByID", ctx, int64(3)).Return(createTestUser(t, 3), nil)

		principal, err := f.service.AuthenticateToken(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, int64(3), principal.UserID)
		assert.True(t, principal.ViaToken)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		f := newAuthFixture(t)
		f.tokens.On("FindByKey", ctx, "nope").Return(nil, shared.ErrNotFound)

		_, err := f.service.AuthenticateToken(ctx, "nope")
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})

	t.Run("rejects inactive owners", func(t *testing.T) {
		f := newAuthFixture(t)
		user := createTestUser(t, 3)
		user.IsActive = false
		f.tokens.On("FindByKey", ctx, "key").Return(&identity.APIToken{Key: "key", UserID: 3}, nil)
		f.users.On("FindByID", ctx, int64(3)).Return(user, nil)

		_, err := f.service.AuthenticateToken(ctx, "key")
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})
}
