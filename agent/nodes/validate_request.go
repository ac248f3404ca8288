package nodes

import (
	"strings"
	"time"
)

// ValidateRequest normalizes the inbound request. A blank session key falls
// back to the fixed default; blank text is rejected here because the caller
// short-circuits it before the graph runs.
func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = DefaultSessionKey
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
