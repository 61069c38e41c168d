// File: internal/infra/db/postgres/message_repo.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"ragchat-storage/internal/domain/model"
	"ragchat-storage/internal/domain/ports/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, qx any, m *model.Message) error {
	const q = `
INSERT INTO chat_messages (session_id, sender, content, context)
VALUES ($1,$2,$3,NULLIF($4,''))
RETURNING id, created_at;`
	row := pick(r.pool, qx).QueryRow(ctx, q, m.SessionID, string(m.Sender), m.Content, m.Context)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MessageRepo) FindBySession(ctx context.Context, qx any, sessionID int64, offset, limit int) ([]*model.Message, error) {
	const q = `
SELECT id, session_id, sender, content, context, created_at
FROM chat_messages WHERE session_id=$1
ORDER BY created_at ASC, id ASC OFFSET $2 LIMIT $3;`
	rows, err := pick(r.pool, qx).Query(ctx, q, sessionID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()
	var out []*model.Message
	for rows.Next() {
		var m model.Message
		var sender string
		var msgContext sql.NullString
		if err := rows.Scan(&m.ID, &m.SessionID, &sender, &m.Content, &msgContext, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Sender = model.SenderType(sender)
		m.Context = msgContext.String
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *MessageRepo) CountBySession(ctx context.Context, qx any, sessionID int64) (int64, error) {
	const q = `SELECT COUNT(*) FROM chat_messages WHERE session_id=$1;`
	var n int64
	if err := pick(r.pool, qx).QueryRow(ctx, q, sessionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

func (r *MessageRepo) DeleteBySession(ctx context.Context, qx any, sessionID int64) error {
	const q = `DELETE FROM chat_messages WHERE session_id=$1;`
	if _, err := pick(r.pool, qx).Exec(ctx, q, sessionID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return nil
}
