package adapter

import (
	"context"

	"ragchat-storage/internal/domain/model"
)

// EventPublisher emits domain events to two logical streams, keyed by entity
// id. Publication is fire-and-forget: implementations must not block the
// caller on delivery and must not surface delivery failures as errors.
// Outcomes are logged and counted asynchronously. Delivery is at-least-once;
// consumers must tolerate duplicates.
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, ev model.SessionEvent)
	PublishMessageEvent(ctx context.Context, ev model.MessageEvent)
}
