package domain

import (
	"time"

	"github.com/google/uuid"
)

// User models an account stored in the users table.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// UserPatch carries the columns an update should touch. Nil fields are left
// unchanged.
type UserPatch struct {
	Email        *string
	PasswordHash *string
	FullName     *string
	IsActive     *bool
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.PasswordHash == nil && p.FullName == nil && p.IsActive == nil
}
