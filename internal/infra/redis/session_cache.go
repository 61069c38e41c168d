package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"ragchat-storage/internal/domain/model"
)

// SessionCache fronts session reads. The cached row carries the owning user
// id, so readers verify ownership against it; owners never change, which
// keeps the check sound on stale entries. Best effort only: callers treat
// every error as a miss.
type SessionCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewSessionCache(client RedisClient, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func (c *SessionCache) Store(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(session.ID), data, c.ttl)
}

func (c *SessionCache) Get(ctx context.Context, sessionID int64) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *SessionCache) Invalidate(ctx context.Context, sessionID int64) error {
	return c.client.Del(ctx, sessionKey(sessionID))
}

func sessionKey(sessionID int64) string {
	return "session:" + strconv.FormatInt(sessionID, 10)
}
