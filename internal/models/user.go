package models

import "time"

type User struct {
	ID       string
	FullName string
	Email    string
	// Password holds the argon2id hash, never the plain secret.
	Password string
	// RefreshToken is the single currently valid refresh token.
	// Empty means the user is logged out everywhere.
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
