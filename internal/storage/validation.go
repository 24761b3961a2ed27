// Package storage provides the data persistence layer for the quicksort service.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quicksortapp/quicksort/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidUser      = errors.New("invalid user")
	ErrInvalidRecord    = errors.New("invalid history record")
	ErrInvalidGuide     = errors.New("invalid guide entry")
	ErrInvalidSession   = errors.New("invalid session")
	ErrNegativeCarbon   = errors.New("carbon reduction cannot be negative")
	ErrNegativeInterval = errors.New("session expiry must be after creation")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateUser validates a user account before persistence.
func validateUser(user *model.UserAccount) error {
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if user.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidUser)
	}
	if user.Username == "" {
		return fmt.Errorf("%w: missing username", ErrInvalidUser)
	}
	if user.TotalCarbonReduced < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidUser, ErrNegativeCarbon)
	}
	return nil
}

// validateHistoryRecord validates a history record before persistence.
func validateHistoryRecord(record *model.HistoryRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if record.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidRecord)
	}
	if record.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidRecord)
	}
	if record.CarbonReduced < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, ErrNegativeCarbon)
	}
	return nil
}

// validateGuideEntry validates a guide entry before persistence.
func validateGuideEntry(entry *model.GuideEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if entry.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidGuide)
	}
	if entry.SubDetail == "" {
		return fmt.Errorf("%w: missing sub-detail", ErrInvalidGuide)
	}
	return nil
}

// validateSession validates a session before persistence.
func validateSession(session *model.Session) error {
	if session == nil {
		return fmt.Errorf("%w: session", ErrNilParameter)
	}
	if session.Token == "" {
		return fmt.Errorf("%w: missing token", ErrInvalidSession)
	}
	if session.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidSession)
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		return fmt.Errorf("%w: %s", ErrInvalidSession, ErrNegativeInterval)
	}
	return nil
}
