package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a piece of content owned by exactly one User.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	IsPublished bool       `json:"is_published"`
	AuthorID    uuid.UUID  `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// PostPatch carries the columns an update should touch. Nil fields are left
// unchanged.
type PostPatch struct {
	Title       *string
	Body        *string
	IsPublished *bool
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.IsPublished == nil
}
