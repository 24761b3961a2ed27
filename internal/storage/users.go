package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quicksortapp/quicksort/internal/common"
	"github.com/quicksortapp/quicksort/internal/model"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// CreateUser persists a new user account. The username and email must be
// unique.
func (s *SQLiteStorage) CreateUser(ctx context.Context, user *model.UserAccount) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUser(user); err != nil {
		return err
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO users (id, username, email, password_hash, total_carbon_reduced, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.TotalCarbonReduced, user.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: username or email already taken", common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("created user", "id", user.ID, "username", user.Username)
	return nil
}

// GetUserByID returns the user with the given id.
func (s *SQLiteStorage) GetUserByID(ctx context.Context, id string) (*model.UserAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	return s.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByUsername returns the user with the given username.
func (s *SQLiteStorage) GetUserByUsername(ctx context.Context, username string) (*model.UserAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(username, "username"); err != nil {
		return nil, err
	}

	return s.getUser(ctx, `WHERE username = ?`, username)
}

func (s *SQLiteStorage) getUser(ctx context.Context, where string, arg any) (*model.UserAccount, error) {
	query := `
		SELECT id, username, email, password_hash, total_carbon_reduced, created_at
		FROM users ` + where

	var user model.UserAccount
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.TotalCarbonReduced, &user.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// UserRank returns the user's position in the global ordering by aggregate
// carbon reduction: the count of users with a strictly greater aggregate,
// plus one.
func (s *SQLiteStorage) UserRank(ctx context.Context, userID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	var greater int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE total_carbon_reduced > ?`,
		user.TotalCarbonReduced,
	).Scan(&greater)
	if err != nil {
		return 0, fmt.Errorf("failed to compute rank: %w", err)
	}

	return greater + 1, nil
}

// Leaderboard returns up to limit users ordered by aggregate carbon
// reduction, descending. A non-positive limit returns an empty list.
func (s *SQLiteStorage) Leaderboard(ctx context.Context, limit int) ([]model.UserAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []model.UserAccount{}, nil
	}

	query := `
		SELECT id, username, email, password_hash, total_carbon_reduced, created_at
		FROM users
		ORDER BY total_carbon_reduced DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.UserAccount
	for rows.Next() {
		var user model.UserAccount
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.TotalCarbonReduced, &user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	slog.Debug("retrieved leaderboard", "count", len(users), "limit", limit)
	return users, nil
}
