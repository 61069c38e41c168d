package redis

import (
	"context"
	"strconv"
	"time"

	"ragchat-storage/internal/domain/model"
	"ragchat-storage/internal/domain/ports/adapter"
	"ragchat-storage/internal/infra/metrics"
	"ragchat-storage/internal/infra/worker"

	"github.com/rs/zerolog"
)

var _ adapter.EventPublisher = (*StreamPublisher)(nil)

// StreamPublisher emits typed domain events to two Redis Streams. Publication
// is handed to a worker pool, so the caller returns immediately and a slow or
// unreachable broker can only ever cost a log line and a dropped-event count.
// Entries are keyed by entity id, which gives consumers per-entity ordering
// and nothing more; delivery is at-least-once.
type StreamPublisher struct {
	client        RedisClient
	pool          *worker.Pool
	sessionStream string
	messageStream string
	log           *zerolog.Logger
}

func NewStreamPublisher(client RedisClient, pool *worker.Pool, sessionStream, messageStream string, logger *zerolog.Logger) *StreamPublisher {
	return &StreamPublisher{
		client:        client,
		pool:          pool,
		sessionStream: sessionStream,
		messageStream: messageStream,
		log:           logger,
	}
}

func (p *StreamPublisher) PublishSessionEvent(_ context.Context, ev model.SessionEvent) {
	values := map[string]interface{}{
		"key":         strconv.FormatInt(ev.SessionID, 10),
		"eventType":   string(ev.Kind),
		"sessionId":   ev.SessionID,
		"userId":      ev.UserID,
		"sessionName": ev.SessionName,
		"timestamp":   ev.Timestamp,
	}
	p.submit(p.sessionStream, string(ev.Kind), values)
}

func (p *StreamPublisher) PublishMessageEvent(_ context.Context, ev model.MessageEvent) {
	values := map[string]interface{}{
		"key":           strconv.FormatInt(ev.MessageID, 10),
		"eventType":     string(ev.Kind),
		"messageId":     ev.MessageID,
		"sessionId":     ev.SessionID,
		"userId":        ev.UserID,
		"sender":        string(ev.Sender),
		"contentLength": ev.ContentLength,
		"timestamp":     ev.Timestamp,
	}
	p.submit(p.messageStream, string(ev.Kind), values)
}

// submit never returns an error to the caller. The task runs on the pool's
// lifetime context, not the request's, so an already-finished request cannot
// cancel its own events.
func (p *StreamPublisher) submit(stream, kind string, values map[string]interface{}) {
	err := p.pool.Submit(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := p.client.XAdd(ctx, stream, values); err != nil {
			metrics.EventDropped(stream)
			p.log.Error().Str("stream", stream).Str("event", kind).Err(err).Msg("event publish failed")
			return nil // already accounted for
		}
		metrics.EventPublished(stream)
		p.log.Debug().Str("stream", stream).Str("event", kind).Msg("event published")
		return nil
	})
	if err != nil {
		metrics.EventDropped(stream)
		p.log.Error().Str("stream", stream).Str("event", kind).Err(err).Msg("event enqueue failed")
	}
}
