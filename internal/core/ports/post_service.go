package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/haikudo/backend/internal/core/domain"
)

// CreatePostInput carries the validated fields of a new post.
type CreatePostInput struct {
	Title       string
	Body        string
	IsPublished bool
	AuthorID    uuid.UUID
}

// UpdatePostInput carries the fields to change; nil means unchanged.
type UpdatePostInput struct {
	Title       *string
	Body        *string
	IsPublished *bool
}

// ListPostsInput carries the list endpoint parameters.
type ListPostsInput struct {
	AuthorID  *uuid.UUID
	Published *bool
	PageRequest
}

// PostService defines use-case operations for posts.
type PostService interface {
	Create(ctx context.Context, in CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context, in ListPostsInput) (*Page[*domain.Post], error)
	// ListByAuthor fails with domain.ErrUserNotFound when the author does not exist.
	ListByAuthor(ctx context.Context, authorID uuid.UUID, page PageRequest) (*Page[*domain.Post], error)
	Update(ctx context.Context, id uuid.UUID, in UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
