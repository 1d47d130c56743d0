package domain

import "time"

type ID string

type User struct {
	ID           ID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary is the password-free projection returned by list endpoints.
type Summary struct {
	ID        ID
	Email     string
	CreatedAt time.Time
}
