package models

import "time"

// LoginAttemptRecord is the persisted failed-login counter for one account.
// Timestamp marks the start of the current window in unix milliseconds.
type LoginAttemptRecord struct {
	Timestamp int64 `json:"timestamp"`
	Count     int   `json:"count"`
}

// WindowStart returns the window start as a time.Time
func (r LoginAttemptRecord) WindowStart() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// AttemptState describes where an account sits in the attempt state machine
type AttemptState string

const (
	AttemptStateClear    AttemptState = "clear"
	AttemptStateCounting AttemptState = "counting"
	AttemptStateLimited  AttemptState = "limited"
)
