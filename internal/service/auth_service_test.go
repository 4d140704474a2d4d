package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/linkpulse/internal/database"
	"github.com/avoronov/linkpulse/internal/models"
)

const testSecret = "test-secret"

func newAuthService(userRepo *MockUserRepository, tokens *MockTokenStore) *AuthService {
	return NewAuthService(userRepo, tokens, testSecret, time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("email taken", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newAuthService(userRepo, new(MockTokenStore))

		userRepo.
			On("Create", ctx, mock.Anything).
			Once().
			Return(nil, database.ErrEmailExists)

		user, err := svc.Register(ctx, "jane", "jane@example.com", "s3cret")

		require.Error(t, err)
		assert.ErrorIs(t, err, database.ErrEmailExists)
		assert.Nil(t, user)
	})

	t.Run("success stores a hash, not the password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newAuthService(userRepo, new(MockTokenStore))

		userRepo.
			On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
				return u.Email == "jane@example.com" &&
					u.PasswordHash != "s3cret" &&
					checkPassword(u.PasswordHash, "s3cret")
			})).
			Once().
			Return(&models.User{ID: 1, Username: "jane", Email: "jane@example.com"}, nil)

		user, err := svc.Register(ctx, "jane", "jane@example.com", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		userRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newAuthService(userRepo, new(MockTokenStore))

		userRepo.
			On("GetByEmail", ctx, "jane@example.com").
			Once().
			Return(nil, database.ErrUserNotFound)

		token, err := svc.Login(ctx, "jane@example.com", "s3cret")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newAuthService(userRepo, new(MockTokenStore))

		hash, err := hashPassword("s3cret")
		require.NoError(t, err)

		userRepo.
			On("GetByEmail", ctx, "jane@example.com").
			Once().
			Return(&models.User{ID: 1, Email: "jane@example.com", PasswordHash: hash}, nil)

		token, err := svc.Login(ctx, "jane@example.com", "guess")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("success issues a verifiable token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokens := new(MockTokenStore)
		svc := newAuthService(userRepo, tokens)

		hash, err := hashPassword("s3cret")
		require.NoError(t, err)

		user := &models.User{ID: 1, Email: "jane@example.com", PasswordHash: hash}
		userRepo.On("GetByEmail", ctx, "jane@example.com").Once().Return(user, nil)
		userRepo.On("GetByID", ctx, int64(1)).Once().Return(user, nil)
		tokens.On("IsRevoked", ctx, mock.Anything).Once().Return(false, nil)

		token, err := svc.Login(ctx, "jane@example.com", "s3cret")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		authed, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), authed.ID)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		svc := newAuthService(new(MockUserRepository), new(MockTokenStore))

		user, err := svc.Authenticate(ctx, "not-a-jwt")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, user)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthService(new(MockUserRepository), new(MockTokenStore), "other-secret", time.Hour)
		token, err := other.issueToken(1)
		require.NoError(t, err)

		svc := newAuthService(new(MockUserRepository), new(MockTokenStore))

		user, err := svc.Authenticate(ctx, token)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, user)
	})

	t.Run("revoked token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokens := new(MockTokenStore)
		svc := newAuthService(userRepo, tokens)

		token, err := svc.issueToken(1)
		require.NoError(t, err)

		tokens.On("IsRevoked", ctx, mock.Anything).Once().Return(true, nil)

		user, err := svc.Authenticate(ctx, token)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, user)
		userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("deleted user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokens := new(MockTokenStore)
		svc := newAuthService(userRepo, tokens)

		token, err := svc.issueToken(1)
		require.NoError(t, err)

		tokens.On("IsRevoked", ctx, mock.Anything).Once().Return(false, nil)
		userRepo.On("GetByID", ctx, int64(1)).Once().Return(nil, database.ErrUserNotFound)

		user, err := svc.Authenticate(ctx, token)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, user)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes for the remaining lifetime", func(t *testing.T) {
		tokens := new(MockTokenStore)
		svc := newAuthService(new(MockUserRepository), tokens)

		token, err := svc.issueToken(1)
		require.NoError(t, err)

		tokens.
			On("Revoke", ctx, mock.Anything, mock.MatchedBy(func(ttl time.Duration) bool {
				return ttl > 0 && ttl <= time.Hour
			})).
			Once().
			Return(nil)

		require.NoError(t, svc.Logout(ctx, token))
		tokens.AssertExpectations(t)
	})

	t.Run("invalid token", func(t *testing.T) {
		tokens := new(MockTokenStore)
		svc := newAuthService(new(MockUserRepository), tokens)

		err := svc.Logout(ctx, "not-a-jwt")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
		tokens.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})
}
