package nodes

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
	routerx "github.com/tasia-assistant/tasia/agent/router"
	sessionx "github.com/tasia-assistant/tasia/agent/session"
)

func fixedNow() time.Time {
	return time.Unix(1_700_000_000, 0)
}

func TestValidateRequestDefaultsSessionKey(t *testing.T) {
	t.Parallel()

	state, err := ValidateRequest(GraphInput{SessionID: "  ", Text: " hello "}, fixedNow)
	if err != nil {
		t.Fatalf("ValidateRequest: %v", err)
	}
	if state.SessionID != DefaultSessionKey {
		t.Fatalf("session id = %q, want the default key", state.SessionID)
	}
	if state.Text != "hello" {
		t.Fatalf("text = %q, want trimmed", state.Text)
	}
	if !state.Now.Equal(fixedNow().UTC()) {
		t.Fatalf("now = %v, want the injected clock in UTC", state.Now)
	}
}

func TestValidateRequestRejectsBlankText(t *testing.T) {
	t.Parallel()

	if _, err := ValidateRequest(GraphInput{SessionID: "s", Text: "   "}, fixedNow); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("err = %v, want ErrInvalidMessage", err)
	}
}

func TestLoadHistoryPopulatesState(t *testing.T) {
	t.Parallel()

	store := sessionx.NewMemoryStore(time.Minute)
	ctx := context.Background()
	if err := store.AppendRound(ctx, "s", sessionx.UserMessage("a"), sessionx.AssistantMessage("b")); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	state, err := LoadHistory(ctx, &GraphState{SessionID: "s"}, store)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(state.History) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(state.History))
	}
}

func TestRouteIntentSetsDecision(t *testing.T) {
	t.Parallel()

	state, err := RouteIntent(&GraphState{Text: "переклади: good morning"})
	if err != nil {
		t.Fatalf("RouteIntent: %v", err)
	}
	if state.Decision.Route != routerx.RouteTranslate {
		t.Fatalf("route = %q, want translate", state.Decision.Route)
	}
}

func TestFinalizeReply(t *testing.T) {
	t.Parallel()

	out, err := FinalizeReply(&GraphState{Reply: "done"})
	if err != nil {
		t.Fatalf("FinalizeReply: %v", err)
	}
	if out.Reply != "done" {
		t.Fatalf("reply = %q, want done", out.Reply)
	}

	if _, err := FinalizeReply(&GraphState{Reply: "  "}); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("blank reply err = %v, want ErrSchemaViolation", err)
	}

	out, err = FinalizeReply(&GraphState{Reply: "", AllowEmptyReply: true})
	if err != nil {
		t.Fatalf("FinalizeReply with AllowEmptyReply: %v", err)
	}
	if out.Reply != "" {
		t.Fatalf("reply = %q, want empty passed through", out.Reply)
	}
}
