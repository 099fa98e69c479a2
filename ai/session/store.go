package session

import (
	"context"
	"log/slog"
	"sync"
)

// Turn is one user-message/assistant-reply exchange.
type Turn struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// Store keeps the bounded recent-turn history for each user,
// most-recent-first. Implementations never fail a caller: backend
// errors are logged and the operation degrades to a no-op or an
// empty read.
type Store interface {
	// Read returns up to maxTurns turns for the user, most-recent-first.
	Read(ctx context.Context, userID string) []Turn

	// Append inserts a new turn at the front and trims the history
	// to maxTurns entries.
	Append(ctx context.Context, userID, userText, botText string)

	// Clear removes all turns for the user.
	Clear(ctx context.Context, userID string)
}

const DefaultMaxTurns = 5

// New builds a Store. When redisURL is set and the server answers a
// ping, the history lives in a Redis list; otherwise it falls back to
// process memory. A configured but unreachable Redis never fails
// construction.
func New(ctx context.Context, redisURL string, maxTurns int) Store {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if redisURL == "" {
		return newMemoryStore(maxTurns)
	}
	store, err := newRedisStore(ctx, redisURL, maxTurns)
	if err != nil {
		slog.Warn("session: redis unavailable, using in-memory store", "error", err)
		return newMemoryStore(maxTurns)
	}
	slog.Info("session: using redis store", "max_turns", maxTurns)
	return store
}

type memoryStore struct {
	mu       sync.Mutex
	turns    map[string][]Turn
	maxTurns int
}

func newMemoryStore(maxTurns int) *memoryStore {
	return &memoryStore{
		turns:    make(map[string][]Turn),
		maxTurns: maxTurns,
	}
}

func (s *memoryStore) Read(_ context.Context, userID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.turns[userID]
	out := make([]Turn, len(history))
	copy(out, history)
	return out
}

func (s *memoryStore) Append(_ context.Context, userID, userText, botText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append([]Turn{{User: userText, Bot: botText}}, s.turns[userID]...)
	if len(history) > s.maxTurns {
		history = history[:s.maxTurns]
	}
	s.turns[userID] = history
}

func (s *memoryStore) Clear(_ context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, userID)
}
