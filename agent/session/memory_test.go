package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreAppendAndHistory(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(200 * time.Second)
	ctx := context.Background()

	if err := store.AppendRound(ctx, "chat-1", UserMessage("hi"), AssistantMessage("hello")); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	history, err := store.History(ctx, "chat-1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Role != RoleUser || history[0].Content != "hi" {
		t.Fatalf("history[0] = %+v, want the user message", history[0])
	}
	if history[1].Role != RoleAssistant || history[1].Content != "hello" {
		t.Fatalf("history[1] = %+v, want the assistant message", history[1])
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	store := NewMemoryStore(200*time.Second, WithMemoryNowFunc(func() time.Time { return now }))
	ctx := context.Background()

	if err := store.AppendRound(ctx, "chat-1", UserMessage("hi"), AssistantMessage("hello")); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	now = now.Add(199 * time.Second)
	if history, err := store.History(ctx, "chat-1"); err != nil || len(history) != 2 {
		t.Fatalf("history before expiry = %d messages, err %v; want 2, nil", len(history), err)
	}

	now = now.Add(2 * time.Second)
	history, err := store.History(ctx, "chat-1")
	if err != nil {
		t.Fatalf("History after expiry: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expired session returned %d messages, want 0", len(history))
	}
}

func TestMemoryStoreAppendSlidesExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	store := NewMemoryStore(200*time.Second, WithMemoryNowFunc(func() time.Time { return now }))
	ctx := context.Background()

	if err := store.AppendRound(ctx, "chat-1", UserMessage("a"), AssistantMessage("b")); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	// A second round near the deadline pushes it out again.
	now = now.Add(150 * time.Second)
	if err := store.AppendRound(ctx, "chat-1", UserMessage("c"), AssistantMessage("d")); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	now = now.Add(150 * time.Second)
	history, err := store.History(ctx, "chat-1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("len(history) = %d, want 4 after the slid deadline", len(history))
	}
}

func TestMemoryStoreReadDoesNotSlideExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	store := NewMemoryStore(200*time.Second, WithMemoryNowFunc(func() time.Time { return now }))
	ctx := context.Background()

	if err := store.AppendRound(ctx, "chat-1", UserMessage("a"), AssistantMessage("b")); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	now = now.Add(150 * time.Second)
	if _, err := store.History(ctx, "chat-1"); err != nil {
		t.Fatalf("History: %v", err)
	}

	// 51 more seconds pass; the read above must not have reset the clock.
	now = now.Add(51 * time.Second)
	history, err := store.History(ctx, "chat-1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("len(history) = %d, want 0 because reads never slide expiry", len(history))
	}
}

func TestMemoryStoreClear(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(200 * time.Second)
	ctx := context.Background()

	if err := store.AppendRound(ctx, "chat-1", UserMessage("a"), AssistantMessage("b")); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}
	if err := store.Clear(ctx, "chat-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if history, _ := store.History(ctx, "chat-1"); len(history) != 0 {
		t.Fatalf("len(history) = %d after Clear, want 0", len(history))
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	store := NewMemoryStore(200*time.Second, WithMemoryNowFunc(func() time.Time { return now }))
	ctx := context.Background()

	_ = store.AppendRound(ctx, "old", UserMessage("a"), AssistantMessage("b"))
	now = now.Add(150 * time.Second)
	_ = store.AppendRound(ctx, "fresh", UserMessage("c"), AssistantMessage("d"))

	now = now.Add(100 * time.Second)
	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("Sweep() = %d, want 1", removed)
	}
	if history, _ := store.History(ctx, "fresh"); len(history) != 2 {
		t.Fatalf("fresh session lost by sweep, history = %d messages", len(history))
	}
}

func TestMemoryStoreRejectsBlankSession(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(200 * time.Second)
	ctx := context.Background()

	if _, err := store.History(ctx, "  "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("History blank id error = %v, want ErrInvalidSession", err)
	}
	if err := store.AppendRound(ctx, "", UserMessage("a"), AssistantMessage("b")); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("AppendRound blank id error = %v, want ErrInvalidSession", err)
	}
}
