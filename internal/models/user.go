package models

// RegisteredUser is one entry of the persisted account list.
// PasswordHash always holds a bcrypt hash.
type RegisteredUser struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}
