package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password field.
// Balance is a currency amount; the store enforces balance >= 0.
type User struct {
	ID             string
	Email          string
	Password       string
	Name           string
	Role           Role
	IsActive       bool
	Balance        float64
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
