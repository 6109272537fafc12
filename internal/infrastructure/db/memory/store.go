// Package memory is an in-process implementation of ports.SessionManager.
// Each session works on a private copy of the data that replaces the shared
// copy on commit, so a failed session leaves nothing behind. Sessions are
// serialised; it is meant for tests and local tooling, not for production
// traffic.
package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haikudo/backend/internal/core/domain"
	"github.com/haikudo/backend/internal/core/ports"
)

type Store struct {
	mu          sync.Mutex
	data        *dataset
	unavailable error
	now         func() time.Time
}

type dataset struct {
	users map[uuid.UUID]domain.User
	posts map[uuid.UUID]domain.Post
}

func NewStore() *Store {
	return &Store{
		data: &dataset{
			users: make(map[uuid.UUID]domain.User),
			posts: make(map[uuid.UUID]domain.Post),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// SetUnavailable makes every following session and ping fail with err.
// Pass nil to restore the store.
func (s *Store) SetUnavailable(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = err
}

func (s *Store) WithSession(ctx context.Context, fn func(ctx context.Context, sess ports.Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable != nil {
		return s.unavailable
	}

	work := s.data.clone()
	if err := fn(ctx, &session{data: work, now: s.now}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unavailable
}

func (d *dataset) clone() *dataset {
	out := &dataset{
		users: make(map[uuid.UUID]domain.User, len(d.users)),
		posts: make(map[uuid.UUID]domain.Post, len(d.posts)),
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.posts {
		out.posts[k] = v
	}
	return out
}

type session struct {
	data *dataset
	now  func() time.Time
}

func (s *session) Users() ports.UserRepository { return &userRepo{s} }
func (s *session) Posts() ports.PostRepository { return &postRepo{s} }

func (s *session) RoundTrip(ctx context.Context) error { return ctx.Err() }

type userRepo struct{ s *session }

func (r *userRepo) Create(_ context.Context, u *domain.User) error {
	if r.emailTaken(u.Email, uuid.Nil) {
		return domain.ErrEmailTaken
	}
	u.ID = uuid.New()
	u.CreatedAt = r.s.now()
	u.UpdatedAt = nil
	r.s.data.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var all []*domain.User
	for _, u := range r.s.data.users {
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		u := u
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool {
		return before(all[i].CreatedAt, all[i].ID, all[j].CreatedAt, all[j].ID)
	})
	return paginate(all, filter.PageRequest), int64(len(all)), nil
}

func (r *userRepo) Update(_ context.Context, id uuid.UUID, patch domain.UserPatch) (*domain.User, error) {
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Email != nil {
		if r.emailTaken(*patch.Email, id) {
			return nil, domain.ErrEmailTaken
		}
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	now := r.s.now()
	u.UpdatedAt = &now
	r.s.data.users[id] = u
	return &u, nil
}

// Delete removes the user and, like the relational schema, every post the
// user owns.
func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.data.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.data.users, id)
	for pid, p := range r.s.data.posts {
		if p.AuthorID == id {
			delete(r.s.data.posts, pid)
		}
	}
	return nil
}

func (r *userRepo) Count(context.Context) (int64, error) {
	return int64(len(r.s.data.users)), nil
}

func (r *userRepo) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range r.s.data.users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

type postRepo struct{ s *session }

func (r *postRepo) Create(_ context.Context, p *domain.Post) error {
	if _, ok := r.s.data.users[p.AuthorID]; !ok {
		return domain.ErrAuthorNotFound
	}
	p.ID = uuid.New()
	p.CreatedAt = r.s.now()
	p.UpdatedAt = nil
	r.s.data.posts[p.ID] = *p
	return nil
}

func (r *postRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	p, ok := r.s.data.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &p, nil
}

func (r *postRepo) List(_ context.Context, filter ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	var all []*domain.Post
	for _, p := range r.s.data.posts {
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.Published != nil && p.IsPublished != *filter.Published {
			continue
		}
		p := p
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool {
		return before(all[i].CreatedAt, all[i].ID, all[j].CreatedAt, all[j].ID)
	})
	return paginate(all, filter.PageRequest), int64(len(all)), nil
}

func (r *postRepo) Update(_ context.Context, id uuid.UUID, patch domain.PostPatch) (*domain.Post, error) {
	p, ok := r.s.data.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Body != nil {
		p.Body = *patch.Body
	}
	if patch.IsPublished != nil {
		p.IsPublished = *patch.IsPublished
	}
	now := r.s.now()
	p.UpdatedAt = &now
	r.s.data.posts[id] = p
	return &p, nil
}

func (r *postRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.data.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.s.data.posts, id)
	return nil
}

func (r *postRepo) Count(context.Context) (int64, error) {
	return int64(len(r.s.data.posts)), nil
}

// before orders by creation time, then id.
func before(at time.Time, id uuid.UUID, bt time.Time, bid uuid.UUID) bool {
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return bytes.Compare(id[:], bid[:]) < 0
}

func paginate[T any](items []T, req ports.PageRequest) []T {
	req = req.Normalize()
	start := req.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + req.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
