package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS chat_sessions (
	id           BIGSERIAL PRIMARY KEY,
	user_id      TEXT        NOT NULL,
	session_name TEXT        NOT NULL,
	is_favorite  BOOLEAN     NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions (user_id, updated_at DESC);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         BIGSERIAL PRIMARY KEY,
	session_id BIGINT      NOT NULL REFERENCES chat_sessions (id) ON DELETE CASCADE,
	sender     TEXT        NOT NULL,
	content    TEXT        NOT NULL,
	context    TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages (session_id, created_at);
`

// EnsureSchema creates the tables when missing. Meant for dev mode; real
// deployments manage schema out of band.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
