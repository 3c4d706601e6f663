package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixhub-io/fixhub-ce/internal/models"
	"github.com/fixhub-io/fixhub-ce/internal/repository"
)

func newTestAuthService(t *testing.T) (*AuthService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	// Minimal bcrypt cost keeps the suite fast.
	return NewAuthService(store.Workers(), m, NewPasswordHasher(4)), store
}

func TestRegister(t *testing.T) {
	svc, _ := newTestAuthService(t)

	worker, err := svc.Register(context.Background(), &models.RegisterRequest{
		Login:    "jdoe",
		Password: "secret123",
		Name:     "John Doe",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleWorker, worker.Role)
	assert.Equal(t, float64(models.DefaultHourlyRate), worker.HourlyRate)
	assert.NotEqual(t, "secret123", worker.PasswordHash)
}

func TestRegisterDuplicateLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	req := &models.RegisterRequest{Login: "jdoe", Password: "secret123"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrLoginTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{Login: "jdoe", Password: "secret123"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &models.LoginRequest{Login: "jdoe", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "jdoe", resp.Worker.Login)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{Login: "jdoe", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Login: "jdoe", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Login: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{Login: "jdoe", Password: "secret123"})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, &models.LoginRequest{Login: "jdoe", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)

	// The old refresh token was rotated out and cannot be reused.
	_, err = svc.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestRefreshGarbageToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	_, err := svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestLogoutRevokesRefresh(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{Login: "jdoe", Password: "secret123"})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, &models.LoginRequest{Login: "jdoe", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.Worker.ID))

	_, err = svc.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionExpired)
}
