package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/haikudo/backend/internal/api/metrics"
	"github.com/haikudo/backend/internal/core/domain"
	"github.com/haikudo/backend/internal/core/ports"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type UserService struct {
	sessions ports.SessionManager
	logger   zerolog.Logger
	hashCost int
}

func NewUserService(sessions ports.SessionManager, logger zerolog.Logger) *UserService {
	return &UserService{sessions: sessions, logger: logger, hashCost: bcrypt.DefaultCost}
}

// Create hashes the password and stores a new user.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		IsActive:     active,
	}

	err = s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		return sess.Users().Create(ctx, user)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.logger.Error().Err(err).Msg("failed to create user")
		}
		return nil, err
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("user_id", user.ID.String()).Msg("user created")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user *domain.User
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		user, err = sess.Users().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, in ports.ListUsersInput) (*ports.Page[*domain.User], error) {
	req := in.PageRequest.Normalize()
	var (
		users []*domain.User
		total int64
	)
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		users, total, err = sess.Users().List(ctx, ports.ListUsersFilter{Active: in.Active, PageRequest: req})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ports.NewPage(users, total, req), nil
}

// Update applies the non-nil fields of in. An update that changes nothing
// returns the stored user.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in ports.UpdateUserInput) (*domain.User, error) {
	patch := domain.UserPatch{
		Email:    in.Email,
		FullName: in.FullName,
		IsActive: in.IsActive,
	}
	if in.Password != nil {
		hash, err := s.hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	var user *domain.User
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		var err error
		if patch.Empty() {
			user, err = sess.Users().GetByID(ctx, id)
			return err
		}
		user, err = sess.Users().Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id.String()).Msg("user updated")
	return user, nil
}

// Delete removes the user; their posts are removed with them.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.sessions.WithSession(ctx, func(ctx context.Context, sess ports.Session) error {
		return sess.Users().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	if password == "" {
		return "", domain.NewFieldError("password", "is required")
	}
	if len(password) > maxPasswordBytes {
		return "", domain.NewFieldError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
