package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Guard and token errors
	ErrRateLimitExceeded = errors.New("too many failed login attempts")
	ErrSessionExpired    = errors.New("session expired")
	ErrInvalidToken      = errors.New("invalid or expired token")

	// ErrCorruptRecord guards writes over a stored value that no longer decodes
	ErrCorruptRecord = errors.New("stored record is unreadable")
)
