// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered author identity.
// PasswordHash holds the argon2id PHC string, never the plaintext.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns the display name used for article attribution.
// It is denormalized onto articles at creation time and not kept in sync.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Identity is the authenticated caller resolved from a session token.
// It carries just enough of the user record to attribute and authorize writes.
type Identity struct {
	UserID    string
	FirstName string
	LastName  string
}

// FullName returns the caller's display name.
func (i *Identity) FullName() string {
	return i.FirstName + " " + i.LastName
}
