// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"ragchat-storage/internal/domain"
	"ragchat-storage/internal/domain/model"
	"ragchat-storage/internal/domain/ports/adapter"
	"ragchat-storage/internal/domain/ports/repository"
)

// memSessionRepo is a small in-memory implementation used by unit tests.
type memSessionRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{byID: map[int64]*model.Session{}}
}

func (m *memSessionRepo) Create(ctx context.Context, qx any, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memSessionRepo) FindByIDAndUser(ctx context.Context, qx any, id int64, userID string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || s.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionRepo) FindAllByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Session, error) {
	return m.findByUser(userID, offset, limit, false)
}

func (m *memSessionRepo) FindFavoritesByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Session, error) {
	return m.findByUser(userID, offset, limit, true)
}

func (m *memSessionRepo) findByUser(userID string, offset, limit int, favoritesOnly bool) ([]*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*model.Session
	for _, s := range m.byID {
		if s.UserID == userID && (!favoritesOnly || s.Favorite) {
			cp := *s
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memSessionRepo) CountByUser(ctx context.Context, qx any, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.byID {
		if s.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memSessionRepo) CountFavoritesByUser(ctx context.Context, qx any, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.byID {
		if s.UserID == userID && s.Favorite {
			n++
		}
	}
	return n, nil
}

func (m *memSessionRepo) Rename(ctx context.Context, qx any, id int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	return nil
}

func (m *memSessionRepo) SetFavorite(ctx context.Context, qx any, id int64, favorite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Favorite = favorite
	s.UpdatedAt = time.Now()
	return nil
}

func (m *memSessionRepo) Touch(ctx context.Context, qx any, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.UpdatedAt = at
	return nil
}

func (m *memSessionRepo) Delete(ctx context.Context, qx any, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.byID, id)
	return nil
}

// memMessageRepo stores messages in insertion order.
type memMessageRepo struct {
	mu        sync.Mutex
	nextID    int64
	messages  []*model.Message
	createErr error // used by tests to simulate storage failures
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{}
}

func (m *memMessageRepo) Create(ctx context.Context, qx any, msg *model.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	msg.ID = m.nextID
	msg.CreatedAt = time.Now()
	cp := *msg
	m.messages = append(m.messages, &cp)
	return nil
}

func (m *memMessageRepo) FindBySession(ctx context.Context, qx any, sessionID int64, offset, limit int) ([]*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*model.Message
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			cp := *msg
			all = append(all, &cp)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memMessageRepo) CountBySession(ctx context.Context, qx any, sessionID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (m *memMessageRepo) DeleteBySession(ctx context.Context, qx any, sessionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*model.Message
	for _, msg := range m.messages {
		if msg.SessionID != sessionID {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

// fakeLimiter counts calls and answers from a script.
type fakeLimiter struct {
	mu      sync.Mutex
	calls   int
	allowed bool
	err     error
}

func (f *fakeLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.allowed, f.err
}

// fakeCompletion returns a canned result and records its inputs.
type fakeCompletion struct {
	result      adapter.CompletionResult
	lastText    string
	lastContext string
}

func (f *fakeCompletion) Complete(ctx context.Context, userText, priorContext string) adapter.CompletionResult {
	f.lastText = userText
	f.lastContext = priorContext
	return f.result
}

// recordPublisher captures every published event.
type recordPublisher struct {
	mu            sync.Mutex
	sessionEvents []model.SessionEvent
	messageEvents []model.MessageEvent
}

func (r *recordPublisher) PublishSessionEvent(ctx context.Context, ev model.SessionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionEvents = append(r.sessionEvents, ev)
}

func (r *recordPublisher) PublishMessageEvent(ctx context.Context, ev model.MessageEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messageEvents = append(r.messageEvents, ev)
}

// fakeTxManager runs the callback without a real transaction.
type fakeTxManager struct{}

func (f *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}
