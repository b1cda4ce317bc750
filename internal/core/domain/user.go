package domain

import "time"

// User models a registered account. Name, email and avatar are fixed at
// registration; there is no update path.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	Date         time.Time `json:"date"`
}

// Author is the display snapshot copied into posts and comments at creation
// time. It is not kept in sync with the user record.
type Author struct {
	Name   string
	Avatar string
}

// Snapshot returns the user's current display fields.
func (u *User) Snapshot() Author {
	return Author{Name: u.Name, Avatar: u.Avatar}
}

// Identity is the caller resolved from a verified token.
type Identity struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}
