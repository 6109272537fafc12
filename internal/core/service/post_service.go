package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/haikudo/backend/internal/api/metrics"
	"github.com/haikudo/backend/internal/core/domain"
	"github.com/haikudo/backend/internal/core/ports"
)

type PostService struct {
	sessions ports.SessionManager
	logger   zerolog.Logger
}

func NewPostService(sessions ports.SessionManager, logger zerolog.Logger) *PostService {
	return &PostService{sessions: sessions, logger: logger}
}

func (s *PostService) Create(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	post := &domain.Post{
		Title:       in.Title,
		Body:        in.Body,
		IsPublished: in.IsPublished,
		AuthorID:    in.AuthorID,
	}

	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		return sess.Posts().Create(ctx, post)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidReference) {
			s.logger.Error().Err(err).Str("author_id", in.AuthorID.String()).Msg("failed to create post")
		}
		return nil, err
	}

	metrics.PostsCreatedTotal.WithLabelValues(publishedLabel(post.IsPublished)).Inc()
	s.logger.Info().Str("post_id", post.ID.String()).Str("author_id", post.AuthorID.String()).Msg("post created")
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var post *domain.Post
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		post, err = sess.Posts().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, in ports.ListPostsInput) (*ports.Page[*domain.Post], error) {
	req := in.PageRequest.Normalize()
	var (
		posts []*domain.Post
		total int64
	)
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		posts, total, err = sess.Posts().List(ctx, ports.ListPostsFilter{
			AuthorID:    in.AuthorID,
			Published:   in.Published,
			PageRequest: req,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ports.NewPage(posts, total, req), nil
}

// ListByAuthor checks the author exists before listing their published posts,
// inside one session.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uuid.UUID, page ports.PageRequest) (*ports.Page[*domain.Post], error) {
	req := page.Normalize()
	var (
		posts []*domain.Post
		total int64
	)
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		if _, err := sess.Users().GetByID(ctx, authorID); err != nil {
			return err
		}
		published := true
		var err error
		posts, total, err = sess.Posts().List(ctx, ports.ListPostsFilter{
			AuthorID:    &authorID,
			Published:   &published,
			PageRequest: req,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ports.NewPage(posts, total, req), nil
}

func (s *PostService) Update(ctx context.Context, id uuid.UUID, in ports.UpdatePostInput) (*domain.Post, error) {
	patch := domain.PostPatch{Title: in.Title, Body: in.Body, IsPublished: in.IsPublished}

	var post *domain.Post
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		if patch.Empty() {
			post, err = sess.Posts().GetByID(ctx, id)
			return err
		}
		post, err = sess.Posts().Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", id.String()).Msg("post updated")
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		return sess.Posts().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("post_id", id.String()).Msg("post deleted")
	return nil
}

func publishedLabel(published bool) string {
	if published {
		return "published"
	}
	return "draft"
}
