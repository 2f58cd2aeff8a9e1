package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user entity owned by the external user directory.
// The call platform only reads it: identity and preferred language.
// Maps to CockroachDB users table
type User struct {
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	Email             string    `json:"email" db:"email"`
	Username          string    `json:"username" db:"username"`
	PreferredLanguage string    `json:"preferred_language" db:"preferred_language"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}
