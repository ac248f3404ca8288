package session

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one history entry. Immutable once appended; ordering is the
// append sequence.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Session is the stored conversation document. It is owned by the store and
// mutated only through AppendRound.
type Session struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(sessionID string, now time.Time) *Session {
	return &Session{
		SessionID: sessionID,
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

func (s *Session) Validate() error {
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	return nil
}
