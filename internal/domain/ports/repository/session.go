package repository

import (
	"context"
	"time"

	"ragchat-storage/internal/domain/model"
)

// -----------------------------
// Sessions
// -----------------------------

type SessionRepository interface {
	// Create inserts a new session and fills the server-assigned ID and
	// timestamps on the passed struct.
	Create(ctx context.Context, qx any, session *model.Session) error
	// FindByIDAndUser loads a session scoped by owner. A missing row and a
	// row owned by someone else are both domain.ErrSessionNotFound.
	FindByIDAndUser(ctx context.Context, qx any, id int64, userID string) (*model.Session, error)
	FindAllByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Session, error)
	FindFavoritesByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Session, error)
	CountByUser(ctx context.Context, qx any, userID string) (int64, error)
	CountFavoritesByUser(ctx context.Context, qx any, userID string) (int64, error)
	Rename(ctx context.Context, qx any, id int64, name string) error
	SetFavorite(ctx context.Context, qx any, id int64, favorite bool) error
	// Touch advances updated_at. Concurrent touches are last-write-wins.
	Touch(ctx context.Context, qx any, id int64, at time.Time) error
	Delete(ctx context.Context, qx any, id int64) error
}
