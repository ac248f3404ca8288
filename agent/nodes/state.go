package nodes

import (
	"errors"
	"time"

	routerx "github.com/tasia-assistant/tasia/agent/router"
	sessionx "github.com/tasia-assistant/tasia/agent/session"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
	ErrNoDecision     = errors.New("routing decision is missing")
)

// DefaultSessionKey is used when the caller supplies no session identifier.
const DefaultSessionKey = "mcp"

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply string
}

// GraphState flows through the ask pipeline. One instance per request.
type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	History  []sessionx.Message
	Decision routerx.Decision

	Reply string
	// AllowEmptyReply marks routes whose capability output is returned
	// verbatim even when blank (translation of an empty payload).
	AllowEmptyReply bool
}
