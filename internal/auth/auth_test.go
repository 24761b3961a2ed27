package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicksortapp/quicksort/internal/common"
	"github.com/quicksortapp/quicksort/internal/storage"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	return NewService(store, ttl)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "greenfox", "fox@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash, "password must be hashed")

	token, err := svc.Login(ctx, "greenfox", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "greenfox", "fox@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "greenfox", "wrong-password")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "hunter2hunter2")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Register(context.Background(), "greenfox", "fox@example.com", "short")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "greenfox", "fox@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "greenfox", "other@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	svc := newTestService(t, time.Millisecond)
	ctx := context.Background()

	_, err := svc.Register(ctx, "greenfox", "fox@example.com", "hunter2hunter2")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "greenfox", "hunter2hunter2")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Authenticate(context.Background(), "bogus")
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)

	_, err = svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "greenfox", "fox@example.com", "hunter2hunter2")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "greenfox", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}
