package domain

import (
	"strings"
	"time"
)

// User represents a registered account on the server.
type User struct {
	Syncable
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialized to clients
	DisplayName  string    `json:"display_name"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// Name returns the best display name available for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// EmailMatches reports whether the given email identifies this user.
// Email comparison is case-insensitive throughout the application.
func (u *User) EmailMatches(email string) bool {
	return strings.EqualFold(u.Email, email)
}
