package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionValidAt(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	s := &Session{Email: "a@b.com", CreatedAt: now.UnixMilli(), ExpiresAt: now.Add(time.Hour).UnixMilli()}

	assert.True(t, s.ValidAt(now))
	assert.True(t, s.ValidAt(now.Add(59*time.Minute)))
	assert.False(t, s.ValidAt(now.Add(time.Hour)), "expiry instant itself is invalid")
	assert.False(t, s.ValidAt(now.Add(2*time.Hour)))
}

func TestNotificationExpiredAt(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&Notification{}).ExpiredAt(now), "no expiry never expires")
	assert.True(t, (&Notification{ExpiresAt: &past}).ExpiredAt(now))
	assert.False(t, (&Notification{ExpiresAt: &future}).ExpiredAt(now))
}

func TestPasswordResetTokenIsExpired(t *testing.T) {
	now := time.Now()
	tok := &PasswordResetToken{ExpiresAt: now.Add(24 * time.Hour)}

	assert.False(t, tok.IsExpired(now))
	assert.True(t, tok.IsExpired(now.Add(24*time.Hour)))
}
