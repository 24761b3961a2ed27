// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"

	"github.com/quicksortapp/quicksort/internal/model"
)

// GuideStore is the read side of the disposal-guide backing store, consumed
// by the guide resolver.
type GuideStore interface {
	// GetGuideEntry returns the entry for an exact (category, subDetail)
	// pair, or nil if no such entry exists.
	GetGuideEntry(ctx context.Context, category, subDetail string) (*model.GuideEntry, error)
	// CategoryExists reports whether the category is known to the store
	// at all.
	CategoryExists(ctx context.Context, category string) (bool, error)
	// GetCategoryDetails returns every sub-detail and its instructions
	// for one category.
	GetCategoryDetails(ctx context.Context, category string) (map[string][]string, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	GuideStore

	// Guide administration
	UpsertGuideEntry(ctx context.Context, entry model.GuideEntry) error
	ListGuideCategories(ctx context.Context) ([]string, error)

	// User operations
	CreateUser(ctx context.Context, user *model.UserAccount) error
	GetUserByID(ctx context.Context, id string) (*model.UserAccount, error)
	GetUserByUsername(ctx context.Context, username string) (*model.UserAccount, error)

	// History ledger
	AppendHistory(ctx context.Context, record *model.HistoryRecord) (string, error)
	DeleteHistory(ctx context.Context, userID, recordID string) error
	ListHistory(ctx context.Context, userID string) ([]model.HistoryRecord, error)

	// Ranking
	UserRank(ctx context.Context, userID string) (int, error)
	Leaderboard(ctx context.Context, limit int) ([]model.UserAccount, error)

	// Sessions
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ImageStore is the remote object store holding analysis photos.
type ImageStore interface {
	// Upload stores raw image bytes under the user's path and returns a
	// durable URL for the object.
	Upload(ctx context.Context, userID string, body io.Reader, contentType string) (string, error)
	// Delete removes a previously uploaded object by its URL.
	Delete(ctx context.Context, imageURL string) error
}
