// Package guide resolves disposal instructions for a classified item.
package guide

import (
	"context"
	"fmt"

	"github.com/quicksortapp/quicksort/internal/common"
	"github.com/quicksortapp/quicksort/internal/model"
	"github.com/quicksortapp/quicksort/internal/service"
)

// lookupStrategy is one tier of the fallback chain. It returns the matching
// entry, or nil when this tier has no answer and the next tier should run.
type lookupStrategy func(ctx context.Context, store service.GuideStore, category, subDetail string) (*model.GuideEntry, error)

// exactMatch looks up the precise (category, subDetail) pair.
func exactMatch(ctx context.Context, store service.GuideStore, category, subDetail string) (*model.GuideEntry, error) {
	if subDetail == "" {
		return nil, nil
	}
	return store.GetGuideEntry(ctx, category, subDetail)
}

// otherFallback looks up the category's generic bucket.
func otherFallback(ctx context.Context, store service.GuideStore, category, _ string) (*model.GuideEntry, error) {
	return store.GetGuideEntry(ctx, category, model.SubDetailOther)
}

// Resolver answers "how do I dispose of this?" for a classified item by
// trying an ordered list of lookup strategies against the guide store.
type Resolver struct {
	store      service.GuideStore
	strategies []lookupStrategy
}

// NewResolver creates a resolver backed by the given guide store.
func NewResolver(store service.GuideStore) *Resolver {
	return &Resolver{
		store: store,
		strategies: []lookupStrategy{
			exactMatch,
			otherFallback,
		},
	}
}

// Resolve returns the ordered disposal instructions for a (category,
// subDetail) pair.
//
// Unclassifiable items are treated as general waste before lookup. A
// category entirely unknown to the store fails with ErrNotFound; a known
// category with neither an exact nor a fallback entry fails with
// ErrNoGuideAvailable. Entries with no instructions fall through to the
// next tier rather than producing an empty answer.
func (r *Resolver) Resolve(ctx context.Context, category, subDetail string) ([]string, error) {
	if category == model.CategoryUnclassifiable {
		category = model.CategoryGeneralWaste
	}

	exists, err := r.store.CategoryExists(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, category)
	}

	for _, strategy := range r.strategies {
		entry, err := strategy(ctx, r.store, category, subDetail)
		if err != nil {
			return nil, fmt.Errorf("guide lookup failed: %w", err)
		}
		if entry != nil && len(entry.Instructions) > 0 {
			return entry.Instructions, nil
		}
	}

	return nil, fmt.Errorf("%w: category %q detail %q", common.ErrNoGuideAvailable, category, subDetail)
}

// CategoryDetails returns every sub-detail and its instructions for one
// category, for browsing the guide outside an analysis.
func (r *Resolver) CategoryDetails(ctx context.Context, category string) (map[string][]string, error) {
	exists, err := r.store.CategoryExists(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, category)
	}

	return r.store.GetCategoryDetails(ctx, category)
}
