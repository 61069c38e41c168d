package model

import "time"

type SenderType string

const (
	SenderUser      SenderType = "USER"
	SenderAssistant SenderType = "ASSISTANT"
)

// Message is one turn inside a session. Rows are immutable after creation and
// only disappear when the owning session is deleted.
type Message struct {
	ID        int64      `json:"id"`
	SessionID int64      `json:"session_id"`
	Sender    SenderType `json:"sender"`
	Content   string     `json:"content"`
	// Context carries free text between turns to seed the next completion
	// call. Empty means no context.
	Context   string    `json:"context,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

func NewUserMessage(sessionID int64, content, context string) *Message {
	return &Message{
		SessionID: sessionID,
		Sender:    SenderUser,
		Content:   content,
		Context:   context,
	}
}

func NewAssistantMessage(sessionID int64, content, context string) *Message {
	return &Message{
		SessionID: sessionID,
		Sender:    SenderAssistant,
		Content:   content,
		Context:   context,
	}
}
