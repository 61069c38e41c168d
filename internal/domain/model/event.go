package model

import "time"

type SessionEventKind string

const (
	SessionCreated     SessionEventKind = "SESSION_CREATED"
	SessionRenamed     SessionEventKind = "SESSION_RENAMED"
	SessionFavorited   SessionEventKind = "SESSION_FAVORITED"
	SessionUnfavorited SessionEventKind = "SESSION_UNFAVORITED"
	SessionDeleted     SessionEventKind = "SESSION_DELETED"
)

type MessageEventKind string

const (
	MessageAdded MessageEventKind = "MESSAGE_ADDED"
)

// SessionEvent describes one lifecycle change of a session. Events are keyed
// by session id on the wire, so consumers see per-session ordering only.
type SessionEvent struct {
	Kind        SessionEventKind
	SessionID   int64
	UserID      string
	SessionName string
	Timestamp   int64 // unix millis at publish time
}

// MessageEvent describes one appended message. The body itself is not carried,
// only its length.
type MessageEvent struct {
	Kind          MessageEventKind
	MessageID     int64
	SessionID     int64
	UserID        string
	Sender        SenderType
	ContentLength int
	Timestamp     int64
}

func NewSessionEvent(kind SessionEventKind, s *Session) SessionEvent {
	return SessionEvent{
		Kind:        kind,
		SessionID:   s.ID,
		UserID:      s.UserID,
		SessionName: s.Name,
		Timestamp:   time.Now().UnixMilli(),
	}
}

func NewMessageEvent(userID string, m *Message) MessageEvent {
	return MessageEvent{
		Kind:          MessageAdded,
		MessageID:     m.ID,
		SessionID:     m.SessionID,
		UserID:        userID,
		Sender:        m.Sender,
		ContentLength: len(m.Content),
		Timestamp:     time.Now().UnixMilli(),
	}
}
