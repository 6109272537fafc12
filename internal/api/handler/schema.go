package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/haikudo/backend/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// --- Request types ---

type createUserRequest struct {
	Email    string `json:"email"     validate:"required,email,max=255"`
	Password string `json:"password"  validate:"required,min=1,max=72"`
	FullName string `json:"full_name" validate:"max=255"`
	IsActive *bool  `json:"is_active"`
}

type updateUserRequest struct {
	Email    *string `json:"email"     validate:"omitempty,email,max=255"`
	Password *string `json:"password"  validate:"omitempty,min=1,max=72"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	IsActive *bool   `json:"is_active"`
}

type createPostRequest struct {
	Title       string `json:"title"        validate:"required,min=1,max=200"`
	Body        string `json:"body"`
	IsPublished bool   `json:"is_published"`
	AuthorID    string `json:"author_id"    validate:"required,uuid"`
}

type updatePostRequest struct {
	Title       *string `json:"title"        validate:"omitempty,min=1,max=200"`
	Body        *string `json:"body"`
	IsPublished *bool   `json:"is_published"`
}

// listQuery holds the pagination parameters shared by every list route.
type listQuery struct {
	Page  int `json:"page"  validate:"gte=1,lte=1000000"`
	Limit int `json:"limit" validate:"gte=1,lte=100"`
}

// --- Response types ---

type userResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type postResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	IsPublished bool       `json:"is_published"`
	AuthorID    uuid.UUID  `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listResponse[T any] struct {
	Data       []T                `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// userListResponse and postListResponse name the generic envelope for the
// API docs.
type (
	userListResponse = listResponse[userResponse]
	postListResponse = listResponse[postResponse]
)

type messageResponse struct {
	Message string `json:"message"`
}
