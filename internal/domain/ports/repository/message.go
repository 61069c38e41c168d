package repository

import (
	"context"

	"ragchat-storage/internal/domain/model"
)

// -----------------------------
// Messages
// -----------------------------

type MessageRepository interface {
	// Create inserts a message and fills the server-assigned ID and
	// created_at on the passed struct. Messages are never updated.
	Create(ctx context.Context, qx any, message *model.Message) error
	// FindBySession returns messages in creation order.
	FindBySession(ctx context.Context, qx any, sessionID int64, offset, limit int) ([]*model.Message, error)
	CountBySession(ctx context.Context, qx any, sessionID int64) (int64, error)
	DeleteBySession(ctx context.Context, qx any, sessionID int64) error
}
