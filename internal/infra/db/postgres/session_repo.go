// File: internal/infra/db/postgres/session_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ragchat-storage/internal/domain"
	"ragchat-storage/internal/domain/model"
	"ragchat-storage/internal/domain/ports/repository"
	"ragchat-storage/internal/infra/redis"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo persists sessions and fronts owner-scoped reads with a
// best-effort Redis cache.
type SessionRepo struct {
	pool  *pgxpool.Pool
	cache *redis.SessionCache
}

func NewSessionRepo(pool *pgxpool.Pool, cache *redis.SessionCache) *SessionRepo {
	return &SessionRepo{pool: pool, cache: cache}
}

func (r *SessionRepo) Create(ctx context.Context, qx any, s *model.Session) error {
	const q = `
INSERT INTO chat_sessions (user_id, session_name, is_favorite)
VALUES ($1,$2,$3)
RETURNING id, created_at, updated_at;`
	row := pick(r.pool, qx).QueryRow(ctx, q, s.UserID, s.Name, s.Favorite)
	if err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepo) FindByIDAndUser(ctx context.Context, qx any, id int64, userID string) (*model.Session, error) {
	// Cache hit path; any cache error is a miss. Owners never change, so a
	// cached row is safe to check ownership against.
	if r.cache != nil && qx == nil {
		if s, err := r.cache.Get(ctx, id); err == nil {
			if s.UserID != userID {
				return nil, domain.ErrSessionNotFound
			}
			return s, nil
		}
	}

	const q = `
SELECT id, user_id, session_name, is_favorite, created_at, updated_at
FROM chat_sessions WHERE id=$1 AND user_id=$2;`
	row := pick(r.pool, qx).QueryRow(ctx, q, id, userID)
	var s model.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Favorite, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			// Ownership and existence are indistinguishable on purpose.
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	if r.cache != nil {
		_ = r.cache.Store(ctx, &s)
	}
	return &s, nil
}

func (r *SessionRepo) FindAllByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Session, error) {
	const q = `
SELECT id, user_id, session_name, is_favorite, created_at, updated_at
FROM chat_sessions WHERE user_id=$1
ORDER BY updated_at DESC OFFSET $2 LIMIT $3;`
	return r.querySessions(ctx, qx, q, userID, offset, limit)
}

func (r *SessionRepo) FindFavoritesByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Session, error) {
	const q = `
SELECT id, user_id, session_name, is_favorite, created_at, updated_at
FROM chat_sessions WHERE user_id=$1 AND is_favorite
ORDER BY updated_at DESC OFFSET $2 LIMIT $3;`
	return r.querySessions(ctx, qx, q, userID, offset, limit)
}

func (r *SessionRepo) CountByUser(ctx context.Context, qx any, userID string) (int64, error) {
	const q = `SELECT COUNT(*) FROM chat_sessions WHERE user_id=$1;`
	var n int64
	if err := pick(r.pool, qx).QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (r *SessionRepo) CountFavoritesByUser(ctx context.Context, qx any, userID string) (int64, error) {
	const q = `SELECT COUNT(*) FROM chat_sessions WHERE user_id=$1 AND is_favorite;`
	var n int64
	if err := pick(r.pool, qx).QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count favorite sessions: %w", err)
	}
	return n, nil
}

func (r *SessionRepo) Rename(ctx context.Context, qx any, id int64, name string) error {
	const q = `UPDATE chat_sessions SET session_name=$2, updated_at=NOW() WHERE id=$1;`
	return r.exec(ctx, qx, id, q, id, name)
}

func (r *SessionRepo) SetFavorite(ctx context.Context, qx any, id int64, favorite bool) error {
	const q = `UPDATE chat_sessions SET is_favorite=$2, updated_at=NOW() WHERE id=$1;`
	return r.exec(ctx, qx, id, q, id, favorite)
}

func (r *SessionRepo) Touch(ctx context.Context, qx any, id int64, at time.Time) error {
	const q = `UPDATE chat_sessions SET updated_at=$2 WHERE id=$1;`
	return r.exec(ctx, qx, id, q, id, at)
}

func (r *SessionRepo) Delete(ctx context.Context, qx any, id int64) error {
	const q = `DELETE FROM chat_sessions WHERE id=$1;`
	return r.exec(ctx, qx, id, q, id)
}

// exec runs a single-row mutation and drops the cached copy afterwards.
func (r *SessionRepo) exec(ctx context.Context, qx any, id int64, sql string, args ...any) error {
	tag, err := pick(r.pool, qx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("exec session update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	if r.cache != nil {
		_ = r.cache.Invalidate(ctx, id)
	}
	return nil
}

func (r *SessionRepo) querySessions(ctx context.Context, qx any, sql string, args ...any) ([]*model.Session, error) {
	rows, err := pick(r.pool, qx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	var out []*model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Favorite, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
