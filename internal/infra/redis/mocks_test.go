package redis

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// fakeRedis is an in-memory stand-in for RedisClient. It records XADD calls
// and Expire calls so tests can assert on them, and supports injecting errors
// per operation.
type fakeRedis struct {
	mu sync.Mutex

	kv          map[string]string
	counters    map[string]int64
	expires     map[string]time.Duration
	expireCalls map[string]int
	streams     map[string][]map[string]interface{}

	getErr  error
	setErr  error
	incrErr error
	xaddErr error
}

var _ RedisClient = (*fakeRedis)(nil)

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		kv:          make(map[string]string),
		counters:    make(map[string]int64),
		expires:     make(map[string]time.Duration),
		expireCalls: make(map[string]int),
		streams:     make(map[string][]map[string]interface{}),
	}
}

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case string:
		f.kv[key] = v
	case []byte:
		f.kv[key] = string(v)
	}
	f.expires[key] = expiration
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.kv[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeRedis) Incr(ctx context.Context, key string) (int64, error) {
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expires[key] = expiration
	f.expireCalls[key]++
	return nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.kv, k)
		delete(f.counters, k)
		delete(f.expires, k)
	}
	return nil
}

func (f *fakeRedis) XAdd(ctx context.Context, stream string, values map[string]interface{}) error {
	if f.xaddErr != nil {
		return f.xaddErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streams[stream] = append(f.streams[stream], values)
	return nil
}

func (f *fakeRedis) Close() error { return nil }

func (f *fakeRedis) expireCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expireCalls[key]
}

func (f *fakeRedis) streamEntries(stream string) []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]interface{}, len(f.streams[stream]))
	copy(out, f.streams[stream])
	return out
}

func (f *fakeRedis) resetCounter(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.counters, key)
	delete(f.expires, key)
	delete(f.expireCalls, key)
}
