package redis

import (
	"context"
	"testing"
	"time"

	"ragchat-storage/internal/domain/model"
)

func TestSessionCache_RoundTrip(t *testing.T) {
	r := newFakeRedis()
	cache := NewSessionCache(r, 10*time.Minute)
	s := &model.Session{ID: 42, UserID: "u1", Name: "chat", Favorite: true}

	if err := cache.Store(context.Background(), s); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := cache.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != 42 || got.UserID != "u1" || got.Name != "chat" || !got.Favorite {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if ttl := r.expires[sessionKey(42)]; ttl != 10*time.Minute {
		t.Fatalf("cache TTL = %v", ttl)
	}
}

func TestSessionCache_MissIsNil(t *testing.T) {
	cache := NewSessionCache(newFakeRedis(), time.Minute)

	_, err := cache.Get(context.Background(), 7)
	if err == nil {
		t.Fatal("miss returned no error")
	}
	if !IsNil(err) {
		t.Fatalf("miss error not the nil sentinel: %v", err)
	}
}

func TestSessionCache_Invalidate(t *testing.T) {
	r := newFakeRedis()
	cache := NewSessionCache(r, time.Minute)
	s := &model.Session{ID: 42, UserID: "u1", Name: "chat"}

	if err := cache.Store(context.Background(), s); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := cache.Invalidate(context.Background(), 42); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := cache.Get(context.Background(), 42); !IsNil(err) {
		t.Fatalf("invalidated entry still readable: %v", err)
	}
}
