package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/haikudo/backend/internal/core/domain"
)

// ListUsersFilter carries the query parameters for listing users.
type ListUsersFilter struct {
	Active *bool // optional: filter on is_active
	PageRequest
}

// UserRepository defines persistence operations for users. Implementations
// run inside the caller's session and never open their own transaction.
type UserRepository interface {
	// Create inserts u and fills in its generated ID and CreatedAt.
	// A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// List returns one page ordered by created_at, id and the total count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
