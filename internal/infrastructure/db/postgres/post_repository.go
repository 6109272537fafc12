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
	postColumns          = `id, title, body, is_published, author_id, created_at, updated_at`
	postAuthorConstraint = "posts_author_id_fkey"
)

type postRepository struct {
	q querier
}

func (r *postRepository) Create(ctx context.Context, p *domain.Post) error {
	const query = `
		INSERT INTO posts (title, body, is_published, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query, p.Title, p.Body, p.IsPublished, p.AuthorID).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isViolation(err, ForeignKeyViolationCode, postAuthorConstraint) {
			return domain.ErrAuthorNotFound
		}
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	row := r.q.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (r *postRepository) List(ctx context.Context, filter ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	var (
		args  argList
		conds []string
	)
	if filter.AuthorID != nil {
		conds = append(conds, "author_id = "+args.add(*filter.AuthorID))
	}
	if filter.Published != nil {
		conds = append(conds, "is_published = "+args.add(*filter.Published))
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM posts`+where(conds), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	page := filter.PageRequest.Normalize()
	query := fmt.Sprintf(`SELECT %s FROM posts%s ORDER BY created_at, id LIMIT %s OFFSET %s`,
		postColumns, where(conds), args.add(page.Limit), args.add(page.Offset()))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0, page.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, id uuid.UUID, patch domain.PostPatch) (*domain.Post, error) {
	var (
		args argList
		sets []string
	)
	if patch.Title != nil {
		sets = append(sets, "title = "+args.add(*patch.Title))
	}
	if patch.Body != nil {
		sets = append(sets, "body = "+args.add(*patch.Body))
	}
	if patch.IsPublished != nil {
		sets = append(sets, "is_published = "+args.add(*patch.IsPublished))
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE posts SET %s WHERE id = %s RETURNING %s`,
		strings.Join(sets, ", "), args.add(id), postColumns)

	p, err := scanPost(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Title, &p.Body, &p.IsPublished, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
