package session

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with the same sliding-TTL semantics as
// the Redis-backed one. Expired sessions are evicted lazily on access; an
// optional background sweeper reclaims idle ones.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	session  *Session
	deadline time.Time
}

type MemoryStoreOption func(*MemoryStore)

func WithMemoryNowFunc(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(ttl time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultStoreTTL
	}
	s := &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *MemoryStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	key := strings.TrimSpace(sessionID)
	if key == "" {
		return nil, ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[key]
	if !ok {
		return nil, nil
	}
	if !entry.deadline.After(s.now()) {
		delete(s.sessions, key)
		return nil, nil
	}
	// Reads never slide the deadline.
	msgs := make([]Message, len(entry.session.Messages))
	copy(msgs, entry.session.Messages)
	return msgs, nil
}

func (s *MemoryStore) AppendRound(ctx context.Context, sessionID string, user, assistant Message) error {
	key := strings.TrimSpace(sessionID)
	if key == "" {
		return ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.sessions[key]
	if !ok || !entry.deadline.After(now) {
		entry = &memoryEntry{session: NewSession(key, now)}
		s.sessions[key] = entry
	}
	entry.session.Append(user, assistant)
	entry.session.Touch(now)
	entry.deadline = now.Add(s.ttl)
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	key := strings.TrimSpace(sessionID)
	if key == "" {
		return ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}

// Sweep drops every expired session and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.sessions {
		if !entry.deadline.After(now) {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps on the given interval until the context is canceled.
func (s *MemoryStore) RunSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
