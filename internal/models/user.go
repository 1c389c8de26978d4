// Package models defines the data models for the cha-ching API.
//
// Models are value snapshots: updates build a new value and write it back to
// the store under the same id rather than mutating a shared record in place.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Provider describes how a user identity was established.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
)

// User represents a user account. Email is unique across all users and
// lower-cased on write. PasswordHash is nil for externally-authenticated
// users; a ProviderGoogle user never has one.
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	FullName       *string   `json:"full_name,omitempty" db:"full_name"`
	ProfilePicture *string   `json:"profile_picture,omitempty" db:"profile_picture"`
	PasswordHash   *string   `json:"-" db:"password_hash"`
	Provider       Provider  `json:"provider" db:"provider"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
