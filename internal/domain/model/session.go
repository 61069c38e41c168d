package model

import (
	"time"
)

// Session is the aggregate root for one stored conversation. Messages are kept
// in their own table and loaded separately; MessageCount is derived by counting
// rows, never stored.
type Session struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"session_name"`
	Favorite  bool      `json:"is_favorite"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(userID, name string) *Session {
	return &Session{
		UserID:   userID,
		Name:     name,
		Favorite: false,
	}
}

// Touch advances the last-updated timestamp. Last write wins when two
// exchanges race on the same session.
func (s *Session) Touch(t time.Time) {
	s.UpdatedAt = t
}
