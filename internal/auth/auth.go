// Package auth provides registration, login, and bearer-token
// authentication backed by the user store.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quicksortapp/quicksort/internal/common"
	"github.com/quicksortapp/quicksort/internal/model"
	"github.com/quicksortapp/quicksort/internal/service"
)

// DefaultSessionTTL is how long issued tokens stay valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Service hands out and verifies session tokens.
type Service struct {
	storage    service.Storage
	sessionTTL time.Duration
}

// NewService creates an auth service. A non-positive ttl falls back to
// DefaultSessionTTL.
func NewService(storage service.Storage, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{storage: storage, sessionTTL: ttl}
}

// Register creates a new user account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, email, password string) (*model.UserAccount, error) {
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", common.ErrInvalidCredentials)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", common.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.UserAccount{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues a new session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		// Don't leak whether the user exists.
		return "", common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := &model.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.storage.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return token, nil
}

// Logout invalidates a session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.storage.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token into a user. Unknown or expired
// tokens fail with ErrNotAuthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.UserAccount, error) {
	if token == "" {
		return nil, common.ErrNotAuthenticated
	}

	session, err := s.storage.GetSession(ctx, token)
	if err != nil {
		return nil, common.ErrNotAuthenticated
	}

	if session.Expired(time.Now()) {
		// Expired sessions are removed on sight.
		_ = s.storage.DeleteSession(ctx, token)
		return nil, common.ErrNotAuthenticated
	}

	user, err := s.storage.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, common.ErrNotAuthenticated
	}
	return user, nil
}

// newToken generates an opaque random session token.
func newToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
