package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/haikudo/backend/internal/core/domain"
)

// CreateUserInput carries the validated fields of a new user.
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	IsActive *bool // defaults to true
}

// UpdateUserInput carries the fields to change; nil means unchanged.
type UpdateUserInput struct {
	Email    *string
	Password *string
	FullName *string
	IsActive *bool
}

// ListUsersInput carries the list endpoint parameters.
type ListUsersInput struct {
	Active *bool
	PageRequest
}

// UserService defines use-case operations for users.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, in ListUsersInput) (*Page[*domain.User], error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
