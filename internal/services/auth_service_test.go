package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zattar/config"
	"zattar/internal/domain/user"
	zattar_errors "zattar/pkg/errors"
)

type fakeUserRepo struct {
	users map[uuid.UUID]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]user.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return zattar_errors.ErrAlreadyExists
		}
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, zattar_errors.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, zattar_errors.ErrNotFound
}

func newTestAuthService(repo *fakeUserRepo) *AuthService {
	return NewAuthService(repo, &config.Config{
		JWTSecret:    "test-secret",
		JWTExpiryMin: 30,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("register issues a usable token", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())

		res, err := svc.Register(ctx, RegisterInput{
			Email:       "Aibek@Example.com",
			Password:    "correct-horse",
			DisplayName: "Aibek",
			City:        "Almaty",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.Equal(t, int64((30 * time.Minute).Seconds()), res.ExpiresIn)
		// Emails normalize to lowercase on the way in.
		assert.Equal(t, "aibek@example.com", res.User.Email)

		claims, err := svc.ParseAccessToken(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, claims.UserID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())

		in := RegisterInput{Email: "a@b.kz", Password: "long-enough", DisplayName: "A"}
		_, err := svc.Register(ctx, in)
		require.NoError(t, err)

		_, err = svc.Register(ctx, in)
		assert.ErrorIs(t, err, zattar_errors.ErrAlreadyExists)
	})

	t.Run("short password rejected", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())

		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.kz", Password: "short", DisplayName: "A"})
		assert.ErrorIs(t, err, zattar_errors.ErrInvalidInput)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())

		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.kz", Password: "correct-horse", DisplayName: "A"})
		require.NoError(t, err)

		_, err = svc.Login(ctx, LoginInput{Email: "a@b.kz", Password: "wrong-horse"})
		assert.ErrorIs(t, err, zattar_errors.ErrUnauthorized)
	})

	t.Run("login with unknown email does not leak existence", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo())

		_, err := svc.Login(ctx, LoginInput{Email: "nobody@b.kz", Password: "whatever123"})
		assert.ErrorIs(t, err, zattar_errors.ErrUnauthorized)
	})
}

func TestParseAccessToken(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.ParseAccessToken("")
		assert.ErrorIs(t, err, zattar_errors.ErrUnauthorized)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ParseAccessToken("not.a.jwt")
		assert.ErrorIs(t, err, zattar_errors.ErrUnauthorized)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthService(newFakeUserRepo(), &config.Config{JWTSecret: "other-secret", JWTExpiryMin: 30})
		token, _, err := other.newAccessToken(uuid.New())
		require.NoError(t, err)

		_, err = svc.ParseAccessToken(token)
		assert.ErrorIs(t, err, zattar_errors.ErrUnauthorized)
	})

	t.Run("tampered token", func(t *testing.T) {
		token, _, err := svc.newAccessToken(uuid.New())
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("x", len(parts[2]))

		_, err = svc.ParseAccessToken(tampered)
		assert.ErrorIs(t, err, zattar_errors.ErrUnauthorized)
	})
}
