package domain

import "time"

// User is an account record held by the credential store. The password
// hash never leaves the store/service boundary; HTTP responses carry a
// Profile instead.
type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2id, PHC encoded
	IsActive     bool   // inactive users fail all authentication
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the externally visible shape of a user.
type Profile struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
}

// Profile strips the credential material from a user record.
func (u User) Profile(roles []string) Profile {
	return Profile{ID: u.ID, Username: u.Username, Roles: roles}
}
