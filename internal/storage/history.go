package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quicksortapp/quicksort/internal/common"
	"github.com/quicksortapp/quicksort/internal/model"
)

// AppendHistory writes a confirmed analysis to the user's history, then
// credits the record's carbon reduction to the user's running aggregate.
//
// The aggregate update is a read-modify-write inside a single database
// transaction, so concurrent appends for the same user serialize correctly.
// If the aggregate update fails after the record itself committed, the
// record stands and the inconsistency is logged rather than rolled back.
func (s *SQLiteStorage) AppendHistory(ctx context.Context, record *model.HistoryRecord) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateHistoryRecord(record); err != nil {
		return "", err
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	guide, err := json.Marshal(record.Guide)
	if err != nil {
		return "", fmt.Errorf("failed to encode guide: %w", err)
	}

	query := `
		INSERT INTO history (id, user_id, image_url, category, sub_detail, guide, carbon_reduced, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.ImageURL, record.Category,
		record.SubDetail, string(guide), record.CarbonReduced, record.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to append history: %w", err)
	}

	if err := s.adjustAggregate(ctx, record.UserID, record.CarbonReduced); err != nil {
		// Best effort: the record is committed, report the drift.
		common.LogError(fmt.Errorf("%w: %v", common.ErrAggregateUpdateFailed, err),
			"aggregate increment failed after history append",
			common.Fields{"user_id": record.UserID, "record_id": record.ID})
	}

	slog.Info("appended history record",
		"user_id", record.UserID,
		"record_id", record.ID,
		"category", record.Category,
		"carbon_reduced", record.CarbonReduced)
	return record.ID, nil
}

// DeleteHistory removes one history record and refunds its stored carbon
// reduction from the user's aggregate, clamped at zero. The refunded value
// is always the one captured on the record, never re-derived from the
// category: category reward values may change over time, historical
// correctness is about what was actually granted.
//
// Read, delete, and refund run in a single transaction: concurrent deletes
// of the same record id resolve to exactly one refund, the loser sees
// ErrNotFound.
func (s *SQLiteStorage) DeleteHistory(ctx context.Context, userID, recordID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(recordID, "recordID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	var carbonReduced float64
	err = tx.QueryRowContext(ctx,
		`SELECT carbon_reduced FROM history WHERE id = ? AND user_id = ?`,
		recordID, userID,
	).Scan(&carbonReduced)

	if errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return fmt.Errorf("%w: history record %s", common.ErrNotFound, recordID)
	}
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to read history record: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM history WHERE id = ? AND user_id = ?`, recordID, userID,
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete history record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		// Another delete of the same record won the race; it also owns
		// the refund.
		_ = tx.Rollback()
		return fmt.Errorf("%w: history record %s", common.ErrNotFound, recordID)
	}

	if err := adjustAggregateTx(ctx, tx, userID, -carbonReduced); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to refund aggregate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history delete: %w", err)
	}

	slog.Info("deleted history record",
		"user_id", userID,
		"record_id", recordID,
		"carbon_reduced", carbonReduced)
	return nil
}

// ListHistory returns the user's history records, newest first.
func (s *SQLiteStorage) ListHistory(ctx context.Context, userID string) ([]model.HistoryRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, image_url, category, sub_detail, guide, carbon_reduced, created_at
		FROM history
		WHERE user_id = ?
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.HistoryRecord
	for rows.Next() {
		var record model.HistoryRecord
		var guide string
		if err := rows.Scan(
			&record.ID, &record.UserID, &record.ImageURL, &record.Category,
			&record.SubDetail, &guide, &record.CarbonReduced, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}

		if err := json.Unmarshal([]byte(guide), &record.Guide); err != nil {
			return nil, fmt.Errorf("failed to decode guide: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}

	slog.Debug("retrieved history", "user_id", userID, "count", len(records))
	return records, nil
}

// adjustAggregate applies a delta to the user's running carbon aggregate as
// one isolated read-modify-write transaction.
func (s *SQLiteStorage) adjustAggregate(ctx context.Context, userID string, delta float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := adjustAggregateTx(ctx, tx, userID, delta); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit aggregate update: %w", err)
	}
	return nil
}

// adjustAggregateTx reads, adjusts, and writes the user's aggregate inside
// the caller's transaction, clamping the result at zero.
func adjustAggregateTx(ctx context.Context, tx *sql.Tx, userID string, delta float64) error {
	var current float64
	err := tx.QueryRowContext(ctx,
		`SELECT total_carbon_reduced FROM users WHERE id = ?`, userID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: user %s", common.ErrNotFound, userID)
		}
		return fmt.Errorf("failed to read aggregate: %w", err)
	}

	updated := current + delta
	if updated < 0 {
		updated = 0
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET total_carbon_reduced = ? WHERE id = ?`, updated, userID,
	); err != nil {
		return fmt.Errorf("failed to write aggregate: %w", err)
	}
	return nil
}
