package auth

import "time"

// User represents an authenticated user account. IsSuperAdmin is the
// trusted override flag read from the user row itself, independent of the
// role assignment table.
type User struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	IsActive     bool
	IsSuperAdmin bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
