// File: internal/usecase/session_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"ragchat-storage/internal/domain"
	"ragchat-storage/internal/domain/model"
	"ragchat-storage/internal/domain/ports/adapter"
	"ragchat-storage/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ SessionUseCase = (*sessionUC)(nil)

// SessionWithCount pairs a session with its derived message count.
type SessionWithCount struct {
	*model.Session
	MessageCount int64 `json:"message_count"`
}

type SessionUseCase interface {
	Create(ctx context.Context, userID, name string) (*model.Session, error)
	List(ctx context.Context, userID string, offset, limit int) ([]*SessionWithCount, int64, error)
	ListFavorites(ctx context.Context, userID string, offset, limit int) ([]*SessionWithCount, int64, error)
	Get(ctx context.Context, sessionID int64, userID string) (*SessionWithCount, error)
	Rename(ctx context.Context, sessionID int64, userID, name string) (*model.Session, error)
	ToggleFavorite(ctx context.Context, sessionID int64, userID string) (*model.Session, error)
	Delete(ctx context.Context, sessionID int64, userID string) error
}

type sessionUC struct {
	sessions repository.SessionRepository
	messages repository.MessageRepository
	tm       repository.TransactionManager
	events   adapter.EventPublisher
	log      *zerolog.Logger
}

func NewSessionUseCase(
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	tm repository.TransactionManager,
	events adapter.EventPublisher,
	logger *zerolog.Logger,
) *sessionUC {
	return &sessionUC{sessions: sessions, messages: messages, tm: tm, events: events, log: logger}
}

func (u *sessionUC) Create(ctx context.Context, userID, name string) (*model.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	s := model.NewSession(userID, name)
	if err := u.sessions.Create(ctx, nil, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	u.events.PublishSessionEvent(ctx, model.NewSessionEvent(model.SessionCreated, s))
	u.log.Info().Int64("session_id", s.ID).Str("user_id", userID).Msg("session created")
	return s, nil
}

func (u *sessionUC) List(ctx context.Context, userID string, offset, limit int) ([]*SessionWithCount, int64, error) {
	sessions, err := u.sessions.FindAllByUser(ctx, nil, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.sessions.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, 0, err
	}
	out, err := u.withCounts(ctx, sessions)
	return out, total, err
}

func (u *sessionUC) ListFavorites(ctx context.Context, userID string, offset, limit int) ([]*SessionWithCount, int64, error) {
	sessions, err := u.sessions.FindFavoritesByUser(ctx, nil, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.sessions.CountFavoritesByUser(ctx, nil, userID)
	if err != nil {
		return nil, 0, err
	}
	out, err := u.withCounts(ctx, sessions)
	return out, total, err
}

func (u *sessionUC) Get(ctx context.Context, sessionID int64, userID string) (*SessionWithCount, error) {
	s, err := u.sessions.FindByIDAndUser(ctx, nil, sessionID, userID)
	if err != nil {
		return nil, err
	}
	count, err := u.messages.CountBySession(ctx, nil, s.ID)
	if err != nil {
		return nil, err
	}
	return &SessionWithCount{Session: s, MessageCount: count}, nil
}

func (u *sessionUC) Rename(ctx context.Context, sessionID int64, userID, name string) (*model.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	s, err := u.sessions.FindByIDAndUser(ctx, nil, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := u.sessions.Rename(ctx, nil, s.ID, name); err != nil {
		return nil, err
	}
	s.Name = name
	u.events.PublishSessionEvent(ctx, model.NewSessionEvent(model.SessionRenamed, s))
	return s, nil
}

func (u *sessionUC) ToggleFavorite(ctx context.Context, sessionID int64, userID string) (*model.Session, error) {
	s, err := u.sessions.FindByIDAndUser(ctx, nil, sessionID, userID)
	if err != nil {
		return nil, err
	}
	s.Favorite = !s.Favorite
	if err := u.sessions.SetFavorite(ctx, nil, s.ID, s.Favorite); err != nil {
		return nil, err
	}
	kind := model.SessionUnfavorited
	if s.Favorite {
		kind = model.SessionFavorited
	}
	u.events.PublishSessionEvent(ctx, model.NewSessionEvent(kind, s))
	return s, nil
}

// Delete removes the session and its messages in one transaction, then
// publishes SESSION_DELETED.
func (u *sessionUC) Delete(ctx context.Context, sessionID int64, userID string) error {
	s, err := u.sessions.FindByIDAndUser(ctx, nil, sessionID, userID)
	if err != nil {
		return err
	}
	err = u.tm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := u.messages.DeleteBySession(ctx, tx, s.ID); err != nil {
			return err
		}
		return u.sessions.Delete(ctx, tx, s.ID)
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	u.events.PublishSessionEvent(ctx, model.NewSessionEvent(model.SessionDeleted, s))
	u.log.Info().Int64("session_id", s.ID).Str("user_id", userID).Msg("session deleted")
	return nil
}

func (u *sessionUC) withCounts(ctx context.Context, sessions []*model.Session) ([]*SessionWithCount, error) {
	out := make([]*SessionWithCount, 0, len(sessions))
	for _, s := range sessions {
		count, err := u.messages.CountBySession(ctx, nil, s.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &SessionWithCount{Session: s, MessageCount: count})
	}
	return out, nil
}
