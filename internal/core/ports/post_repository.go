package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/haikudo/backend/internal/core/domain"
)

// ListPostsFilter carries the query parameters for listing posts.
type ListPostsFilter struct {
	AuthorID  *uuid.UUID // optional: only posts owned by this user
	Published *bool      // optional: filter on is_published
	PageRequest
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// Create inserts p. An unknown author yields domain.ErrAuthorNotFound.
	Create(ctx context.Context, p *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, int64, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
