package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/haikudo/backend/internal/core/domain"
	"github.com/haikudo/backend/internal/core/ports"
)

const (
	userColumns         = `id, email, password_hash, COALESCE(full_name, ''), is_active, created_at, updated_at`
	userEmailConstraint = "users_email_key"
)

type userRepository struct {
	q querier
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	const query = `
		INSERT INTO users (email, password_hash, full_name, is_active)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query, u.Email, u.PasswordHash, u.FullName, u.IsActive).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return mapUserError(err, "insert user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var (
		args  argList
		conds []string
	)
	if filter.Active != nil {
		conds = append(conds, "is_active = "+args.add(*filter.Active))
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM users`+where(conds), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	page := filter.PageRequest.Normalize()
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at, id LIMIT %s OFFSET %s`,
		userColumns, where(conds), args.add(page.Limit), args.add(page.Offset()))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, page.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (*domain.User, error) {
	var (
		args argList
		sets []string
	)
	if patch.Email != nil {
		sets = append(sets, "email = "+args.add(*patch.Email))
	}
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash = "+args.add(*patch.PasswordHash))
	}
	if patch.FullName != nil {
		sets = append(sets, "full_name = NULLIF("+args.add(*patch.FullName)+", '')")
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = "+args.add(*patch.IsActive))
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = %s RETURNING %s`,
		strings.Join(sets, ", "), args.add(id), userColumns)

	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, mapUserError(err, "update user")
	}
	return u, nil
}

// Delete removes the user. Posts owned by the user are removed by the
// foreign key's ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func mapUserError(err error, op string) error {
	if isViolation(err, UniqueViolationCode, userEmailConstraint) {
		return domain.ErrEmailTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}
