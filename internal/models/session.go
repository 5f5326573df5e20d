package models

import "time"

// Session is the stored record behind a session identifier.
// Timestamps are unix milliseconds so records stay compatible with the dashboard's format.
type Session struct {
	ID        string `json:"-"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

// ValidAt reports whether the session is still valid at now
func (s *Session) ValidAt(now time.Time) bool {
	return now.UnixMilli() < s.ExpiresAt
}

// ExpiresAtTime returns the expiry as a time.Time
func (s *Session) ExpiresAtTime() time.Time {
	return time.UnixMilli(s.ExpiresAt)
}
