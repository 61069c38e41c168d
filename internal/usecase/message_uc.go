// File: internal/usecase/message_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ragchat-storage/internal/domain"
	"ragchat-storage/internal/domain/model"
	"ragchat-storage/internal/domain/ports/adapter"
	"ragchat-storage/internal/domain/ports/repository"
	"ragchat-storage/internal/infra/logging"
	"ragchat-storage/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ MessageUseCase = (*messageUC)(nil)

type MessageUseCase interface {
	// AddMessage runs one exchange: rate check, owned-session lookup, persist
	// the user message, obtain a completion, persist the assistant message,
	// touch the session. It returns both messages in creation order, or
	// domain.ErrRateLimitExceeded / domain.ErrSessionNotFound with nothing
	// persisted. Once the user message is stored the exchange always
	// completes; the completion step cannot fail it.
	AddMessage(ctx context.Context, sessionID int64, userID, content, msgContext string) ([]*model.Message, error)
	ListMessages(ctx context.Context, sessionID int64, userID string, offset, limit int) ([]*model.Message, int64, error)
}

type messageUC struct {
	sessions repository.SessionRepository
	messages repository.MessageRepository
	limiter  adapter.RateLimiter
	ai       adapter.CompletionAdapter
	events   adapter.EventPublisher
	log      *zerolog.Logger
}

func NewMessageUseCase(
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	limiter adapter.RateLimiter,
	ai adapter.CompletionAdapter,
	events adapter.EventPublisher,
	logger *zerolog.Logger,
) *messageUC {
	return &messageUC{
		sessions: sessions,
		messages: messages,
		limiter:  limiter,
		ai:       ai,
		events:   events,
		log:      logger,
	}
}

func (u *messageUC) AddMessage(ctx context.Context, sessionID int64, userID, content, msgContext string) ([]*model.Message, error) {
	start := time.Now()
	log := logging.With(logging.WithSessionID(logging.WithUserID(ctx, userID), sessionID), u.log)

	content = strings.TrimSpace(content)
	if content == "" {
		metrics.ExchangeRejected("invalid_argument")
		return nil, domain.ErrInvalidArgument
	}

	// 1. Rate check. Nothing is persisted and no events fire on rejection.
	ok, err := u.limiter.Allow(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}
	if !ok {
		metrics.ExchangeRejected("rate_limit")
		log.Warn().Msg("exchange rejected: rate limit")
		return nil, domain.ErrRateLimitExceeded
	}

	// 2. Ownership-scoped lookup.
	session, err := u.sessions.FindByIDAndUser(ctx, nil, sessionID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			metrics.ExchangeRejected("session_not_found")
			log.Warn().Msg("exchange rejected: session not found")
		}
		return nil, err
	}

	// 3. Persist the user turn. A storage failure here is fatal.
	userMsg := model.NewUserMessage(session.ID, content, msgContext)
	if err := u.messages.Create(ctx, nil, userMsg); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}
	u.events.PublishMessageEvent(ctx, model.NewMessageEvent(userID, userMsg))
	log.Debug().Int64("message_id", userMsg.ID).Msg("user message saved")

	// 4. Completion. Every outcome, degraded included, yields a usable reply.
	res := u.ai.Complete(ctx, content, msgContext)
	if res.Degraded {
		log.Warn().Str("reason", res.Reason).Msg("completion degraded, substituting reply")
	}

	// 5. Persist the assistant turn with the carried-forward context.
	aiMsg := model.NewAssistantMessage(session.ID, res.Reply, res.NextContext)
	if err := u.messages.Create(ctx, nil, aiMsg); err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}
	u.events.PublishMessageEvent(ctx, model.NewMessageEvent(userID, aiMsg))
	log.Debug().Int64("message_id", aiMsg.ID).Msg("assistant message saved")

	// 6. Advance updated_at; concurrent exchanges are last-write-wins.
	if err := u.sessions.Touch(ctx, nil, session.ID, time.Now()); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}

	elapsed := time.Since(start)
	metrics.ExchangeCompleted(elapsed.Milliseconds())
	log.Info().Dur("duration", elapsed).Msg("exchange completed")
	return []*model.Message{userMsg, aiMsg}, nil
}

func (u *messageUC) ListMessages(ctx context.Context, sessionID int64, userID string, offset, limit int) ([]*model.Message, int64, error) {
	if _, err := u.sessions.FindByIDAndUser(ctx, nil, sessionID, userID); err != nil {
		return nil, 0, err
	}
	msgs, err := u.messages.FindBySession(ctx, nil, sessionID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.messages.CountBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}
