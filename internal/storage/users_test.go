package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/quicksortapp/quicksort/internal/common"
	"github.com/quicksortapp/quicksort/internal/model"
)

func TestCreateUser_DuplicateUsername(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, store, 1)

	dup := &model.UserAccount{
		ID:           "user-other",
		Username:     "user1",
		Email:        "other@example.com",
		PasswordHash: "x",
	}
	if err := store.CreateUser(ctx, dup); !errors.Is(err, common.ErrDuplicateEntry) {
		t.Fatalf("Expected ErrDuplicateEntry, got %v", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	want := createTestUser(t, store, 1)

	got, err := store.GetUserByUsername(ctx, want.Username)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if got.ID != want.ID || got.Email != want.Email {
		t.Errorf("Got wrong user: %+v", got)
	}

	if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

// seedRankedUsers creates three users with aggregates 5, 3, and 0.
func seedRankedUsers(t *testing.T, store *SQLiteStorage) (top, mid, low *model.UserAccount) {
	t.Helper()
	ctx := context.Background()

	top = createTestUser(t, store, 1)
	mid = createTestUser(t, store, 2)
	low = createTestUser(t, store, 3)

	record := testRecord(top.ID, 5)
	if _, err := store.AppendHistory(ctx, record); err != nil {
		t.Fatalf("Failed to seed top user: %v", err)
	}
	record = testRecord(mid.ID, 3)
	if _, err := store.AppendHistory(ctx, record); err != nil {
		t.Fatalf("Failed to seed mid user: %v", err)
	}
	return top, mid, low
}

func TestUserRank(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	top, mid, low := seedRankedUsers(t, store)

	tests := []struct {
		name string
		user *model.UserAccount
		want int
	}{
		{"top user is always rank 1", top, 1},
		{"second user", mid, 2},
		{"zero aggregate user", low, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, err := store.UserRank(ctx, tt.user.ID)
			if err != nil {
				t.Fatalf("Failed to get rank: %v", err)
			}
			if rank != tt.want {
				t.Errorf("Expected rank %d, got %d", tt.want, rank)
			}
		})
	}

	if _, err := store.UserRank(ctx, "nobody"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestLeaderboard(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	top, mid, _ := seedRankedUsers(t, store)

	users, err := store.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to get leaderboard: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}
	if users[0].ID != top.ID {
		t.Errorf("Expected %s first, got %s", top.ID, users[0].ID)
	}
	if users[1].ID != mid.ID {
		t.Errorf("Expected %s second, got %s", mid.ID, users[1].ID)
	}
}

func TestLeaderboard_ZeroLimitIsEmpty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedRankedUsers(t, store)

	users, err := store.Leaderboard(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to get leaderboard: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected empty leaderboard for limit 0, got %d users", len(users))
	}
}
