package contract

import (
	"context"

	sessionx "github.com/tasia-assistant/tasia/agent/session"
)

// Capability is a named downstream function invocable with structured
// arguments. Implementations wrap remote services and their local guards.
type Capability interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, args map[string]any) (Outcome, error)
}

// Responder is the residual reasoning step: it answers directly or picks a
// capability on its own judgment when no routing rule forced one.
type Responder interface {
	Respond(ctx context.Context, req ResponderRequest) (string, error)
}

type ResponderRequest struct {
	UserMessage string             `json:"user_message"`
	History     []sessionx.Message `json:"chat_history,omitempty"`
	ToolResults []ToolResult       `json:"tool_results,omitempty"`
}
