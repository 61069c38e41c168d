// File: internal/usecase/session_uc_test.go
package usecase

import (
	"context"
	"errors"
	"testing"

	"ragchat-storage/internal/domain"
	"ragchat-storage/internal/domain/model"
)

type sessionFixture struct {
	sessions  *memSessionRepo
	messages  *memMessageRepo
	publisher *recordPublisher
	uc        SessionUseCase
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		sessions:  newMemSessionRepo(),
		messages:  newMemMessageRepo(),
		publisher: &recordPublisher{},
	}
	f.uc = NewSessionUseCase(f.sessions, f.messages, &fakeTxManager{}, f.publisher, testLogger())
	return f
}

func TestSessionCreate(t *testing.T) {
	f := newSessionFixture()

	s, err := f.uc.Create(context.Background(), "u1", "  project notes  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID == 0 || s.Name != "project notes" || s.UserID != "u1" || s.Favorite {
		t.Fatalf("unexpected session: %+v", s)
	}
	if len(f.publisher.sessionEvents) != 1 || f.publisher.sessionEvents[0].Kind != model.SessionCreated {
		t.Fatalf("want one SESSION_CREATED event, got %+v", f.publisher.sessionEvents)
	}

	if _, err := f.uc.Create(context.Background(), "u1", "   "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("blank name: want ErrInvalidArgument, got %v", err)
	}
}

func TestSessionListScopedToOwner(t *testing.T) {
	f := newSessionFixture()
	for _, name := range []string{"a", "b", "c"} {
		if _, err := f.uc.Create(context.Background(), "u1", name); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := f.uc.Create(context.Background(), "u2", "other"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	sessions, total, err := f.uc.List(context.Background(), "u1", 0, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Fatalf("want total 3, got %d", total)
	}
	if len(sessions) != 2 {
		t.Fatalf("want page of 2, got %d", len(sessions))
	}
	for _, s := range sessions {
		if s.UserID != "u1" {
			t.Fatalf("foreign session leaked: %+v", s.Session)
		}
	}
}

func TestSessionGetIncludesMessageCount(t *testing.T) {
	f := newSessionFixture()
	s, _ := f.uc.Create(context.Background(), "u1", "chat")
	for i := 0; i < 3; i++ {
		if err := f.messages.Create(context.Background(), nil, model.NewUserMessage(s.ID, "hi", "")); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	got, err := f.uc.Get(context.Background(), s.ID, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.MessageCount != 3 {
		t.Fatalf("want 3 messages, got %d", got.MessageCount)
	}

	if _, err := f.uc.Get(context.Background(), s.ID, "u2"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("foreign reader: want ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRename(t *testing.T) {
	f := newSessionFixture()
	s, _ := f.uc.Create(context.Background(), "u1", "old")

	renamed, err := f.uc.Rename(context.Background(), s.ID, "u1", "new")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if renamed.Name != "new" {
		t.Fatalf("name = %q, want new", renamed.Name)
	}
	last := f.publisher.sessionEvents[len(f.publisher.sessionEvents)-1]
	if last.Kind != model.SessionRenamed || last.SessionName != "new" {
		t.Fatalf("bad rename event: %+v", last)
	}

	if _, err := f.uc.Rename(context.Background(), s.ID, "u2", "stolen"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("foreign rename: want ErrSessionNotFound, got %v", err)
	}
	if _, err := f.uc.Rename(context.Background(), s.ID, "u1", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("blank rename: want ErrInvalidArgument, got %v", err)
	}
}

func TestSessionToggleFavorite(t *testing.T) {
	f := newSessionFixture()
	s, _ := f.uc.Create(context.Background(), "u1", "chat")

	on, err := f.uc.ToggleFavorite(context.Background(), s.ID, "u1")
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if !on.Favorite {
		t.Fatal("first toggle should favorite")
	}
	off, err := f.uc.ToggleFavorite(context.Background(), s.ID, "u1")
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if off.Favorite {
		t.Fatal("second toggle should unfavorite")
	}

	kinds := make([]model.SessionEventKind, 0, len(f.publisher.sessionEvents))
	for _, ev := range f.publisher.sessionEvents {
		kinds = append(kinds, ev.Kind)
	}
	want := []model.SessionEventKind{model.SessionCreated, model.SessionFavorited, model.SessionUnfavorited}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}

	favs, _, err := f.uc.ListFavorites(context.Background(), "u1", 0, 20)
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(favs) != 0 {
		t.Fatalf("unfavorited session still listed: %+v", favs)
	}
}

func TestSessionListFavoritesTotalSpansAllPages(t *testing.T) {
	f := newSessionFixture()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		s, err := f.uc.Create(context.Background(), "u1", name)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := f.uc.ToggleFavorite(context.Background(), s.ID, "u1"); err != nil {
			t.Fatalf("ToggleFavorite: %v", err)
		}
	}
	// A non-favorite and a foreign favorite must not count.
	if _, err := f.uc.Create(context.Background(), "u1", "plain"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	other, err := f.uc.Create(context.Background(), "u2", "theirs")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.uc.ToggleFavorite(context.Background(), other.ID, "u2"); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}

	favs, total, err := f.uc.ListFavorites(context.Background(), "u1", 0, 2)
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(favs) != 2 {
		t.Fatalf("want page of 2, got %d", len(favs))
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5 across all pages", total)
	}
}

func TestSessionDeleteRemovesMessages(t *testing.T) {
	f := newSessionFixture()
	s, _ := f.uc.Create(context.Background(), "u1", "chat")
	for i := 0; i < 2; i++ {
		if err := f.messages.Create(context.Background(), nil, model.NewUserMessage(s.ID, "hi", "")); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	if err := f.uc.Delete(context.Background(), s.ID, "u2"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("foreign delete: want ErrSessionNotFound, got %v", err)
	}
	if err := f.uc.Delete(context.Background(), s.ID, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := f.uc.Get(context.Background(), s.ID, "u1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("deleted session still readable: %v", err)
	}
	count, _ := f.messages.CountBySession(context.Background(), nil, s.ID)
	if count != 0 {
		t.Fatalf("messages survived delete: %d", count)
	}
	last := f.publisher.sessionEvents[len(f.publisher.sessionEvents)-1]
	if last.Kind != model.SessionDeleted {
		t.Fatalf("last event = %s, want SESSION_DELETED", last.Kind)
	}
}
