package service

import (
	"context"
	"testing"
	"time"

	"github.com/dkochetov/storefront/internal/config"
	"github.com/dkochetov/storefront/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]entities.User
	byPhone map[string]entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]entities.User),
		byPhone: make(map[string]entities.User),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, u entities.User) error {
	r.byEmail[u.Email] = u
	if u.Phone != "" {
		r.byPhone[u.Phone] = u
	}
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (entities.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return entities.User{}, entities.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (entities.User, error) {
	u, ok := r.byPhone[phone]
	if !ok {
		return entities.User{}, entities.ErrUserNotFound
	}
	return u, nil
}

func testJWTConfig() config.JWT {
	return config.JWT{Secret: "test-secret-at-least-16", TTL: time.Hour}
}

func TestAuthService_Register(t *testing.T) {
	input := RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Phone:    "9998887766",
		Password: "hunter2hunter2",
	}

	t.Run("success", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(testLogger(), repo, testJWTConfig())

		user, err := svc.Register(context.Background(), input)
		require.NoError(t, err)

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, entities.RoleUser, user.Role)
		assert.Equal(t, entities.UserStatusActive, user.Status)
		assert.NotEqual(t, input.Password, user.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(testLogger(), repo, testJWTConfig())

		_, err := svc.Register(context.Background(), input)
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, entities.ErrEmailTaken)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(testLogger(), repo, testJWTConfig())

		_, err := svc.Register(context.Background(), input)
		require.NoError(t, err)

		second := input
		second.Email = "bob@example.com"
		_, err = svc.Register(context.Background(), second)
		assert.ErrorIs(t, err, entities.ErrPhoneTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(testLogger(), repo, testJWTConfig())

	registered, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token, user, err := svc.Login(context.Background(), "alice@example.com", "hunter2hunter2")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})
}

func TestAuthService_Tokens(t *testing.T) {
	svc := NewAuthService(testLogger(), newFakeUserRepo(), testJWTConfig())

	user := entities.User{ID: "user-1", Role: entities.RoleAdmin}

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.IssueToken(user)
		require.NoError(t, err)

		principal, err := svc.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", principal.UserID)
		assert.Equal(t, entities.RoleAdmin, principal.Role)
		assert.True(t, principal.IsAdmin())
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken("not-a-jwt")
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(testLogger(), newFakeUserRepo(), config.JWT{Secret: "another-secret-16-chars", TTL: time.Hour})
		token, err := other.IssueToken(user)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewAuthService(testLogger(), newFakeUserRepo(), config.JWT{Secret: "test-secret-at-least-16", TTL: -time.Minute})
		token, err := expired.IssueToken(user)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})
}
