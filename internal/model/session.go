package model

import "time"

// Session is an opaque bearer token granting access as one user.
type Session struct {
	CreatedAt time.Time
	ExpiresAt time.Time
	Token     string
	UserID    string
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
