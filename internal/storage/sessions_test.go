package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quicksortapp/quicksort/internal/common"
	"github.com/quicksortapp/quicksort/internal/model"
)

func TestSessions_RoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	user := createTestUser(t, store, 1)

	now := time.Now()
	session := &model.Session{
		Token:     "tok-abc",
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	got, err := store.GetSession(ctx, "tok-abc")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if got.UserID != user.ID {
		t.Errorf("Expected user %s, got %s", user.ID, got.UserID)
	}

	if err := store.DeleteSession(ctx, "tok-abc"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := store.GetSession(ctx, "tok-abc"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := store.DeleteSession(ctx, "tok-abc"); err != nil {
		t.Fatalf("Second delete should be a no-op, got %v", err)
	}
}

func TestCreateSession_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now()
	session := &model.Session{
		Token:     "tok-bad",
		UserID:    "user-1",
		CreatedAt: now,
		ExpiresAt: now.Add(-time.Hour),
	}
	if err := store.CreateSession(ctx, session); err == nil {
		t.Error("Expected error for expiry before creation")
	}
}
