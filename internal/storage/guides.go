package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quicksortapp/quicksort/internal/model"
)

// GetGuideEntry returns the guide entry for an exact (category, subDetail)
// pair, or nil if no such entry exists.
func (s *SQLiteStorage) GetGuideEntry(ctx context.Context, category, subDetail string) (*model.GuideEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}
	if err := validateString(subDetail, "subDetail"); err != nil {
		return nil, err
	}

	query := `
		SELECT category, sub_detail, instructions
		FROM guide_entries
		WHERE category = ? AND sub_detail = ?`

	var entry model.GuideEntry
	var instructions string
	err := s.db.QueryRowContext(ctx, query, category, subDetail).Scan(
		&entry.Category, &entry.SubDetail, &instructions,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Entry not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query guide entry: %w", err)
	}

	if err := json.Unmarshal([]byte(instructions), &entry.Instructions); err != nil {
		return nil, fmt.Errorf("failed to decode instructions: %w", err)
	}

	return &entry, nil
}

// CategoryExists reports whether any guide entry exists for the category.
func (s *SQLiteStorage) CategoryExists(ctx context.Context, category string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(category, "category"); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM guide_entries WHERE category = ?`, category,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}

	return count > 0, nil
}

// GetCategoryDetails returns every sub-detail and its instructions for one
// category.
func (s *SQLiteStorage) GetCategoryDetails(ctx context.Context, category string) (map[string][]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	query := `
		SELECT sub_detail, instructions
		FROM guide_entries
		WHERE category = ?
		ORDER BY sub_detail`

	rows, err := s.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query category details: %w", err)
	}
	defer func() { _ = rows.Close() }()

	details := make(map[string][]string)
	for rows.Next() {
		var subDetail, instructions string
		if err := rows.Scan(&subDetail, &instructions); err != nil {
			return nil, fmt.Errorf("failed to scan guide entry: %w", err)
		}

		var decoded []string
		if err := json.Unmarshal([]byte(instructions), &decoded); err != nil {
			return nil, fmt.Errorf("failed to decode instructions: %w", err)
		}
		details[subDetail] = decoded
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guide entries: %w", err)
	}

	slog.Debug("retrieved category details", "category", category, "count", len(details))
	return details, nil
}

// UpsertGuideEntry creates or replaces the guide entry for the entry's
// (category, subDetail) pair.
func (s *SQLiteStorage) UpsertGuideEntry(ctx context.Context, entry model.GuideEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateGuideEntry(&entry); err != nil {
		return err
	}

	instructions, err := json.Marshal(entry.Instructions)
	if err != nil {
		return fmt.Errorf("failed to encode instructions: %w", err)
	}

	query := `
		INSERT INTO guide_entries (category, sub_detail, instructions)
		VALUES (?, ?, ?)
		ON CONFLICT(category, sub_detail)
		DO UPDATE SET instructions = excluded.instructions`

	if _, err := s.db.ExecContext(ctx, query, entry.Category, entry.SubDetail, string(instructions)); err != nil {
		return fmt.Errorf("failed to upsert guide entry: %w", err)
	}

	slog.Debug("upserted guide entry", "category", entry.Category, "sub_detail", entry.SubDetail)
	return nil
}

// ListGuideCategories returns all categories known to the guide store.
func (s *SQLiteStorage) ListGuideCategories(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM guide_entries ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
