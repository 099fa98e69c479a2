package session

import (
	"context"
	"fmt"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New(ctx, "", 5)

	store.Append(ctx, "u1", "мне приснился сон", "расскажи подробнее")

	history := store.Read(ctx, "u1")
	if len(history) != 1 {
		t.Fatalf("Read returned %d turns, want 1", len(history))
	}
	if history[0].User != "мне приснился сон" || history[0].Bot != "расскажи подробнее" {
		t.Errorf("unexpected turn: %+v", history[0])
	}
}

func TestMemoryStoreMostRecentFirstAndTrim(t *testing.T) {
	ctx := context.Background()
	const maxTurns = 5
	store := New(ctx, "", maxTurns)

	for i := 0; i < maxTurns+3; i++ {
		store.Append(ctx, "u1", fmt.Sprintf("msg-%d", i), fmt.Sprintf("reply-%d", i))
	}

	history := store.Read(ctx, "u1")
	if len(history) != maxTurns {
		t.Fatalf("Read returned %d turns, want %d", len(history), maxTurns)
	}
	// Most recent first: the last N appends, newest at index 0.
	for i := 0; i < maxTurns; i++ {
		want := fmt.Sprintf("msg-%d", maxTurns+2-i)
		if history[i].User != want {
			t.Errorf("history[%d].User = %q, want %q", i, history[i].User, want)
		}
	}
}

func TestMemoryStoreReadUnknownUser(t *testing.T) {
	ctx := context.Background()
	store := New(ctx, "", 5)

	if history := store.Read(ctx, "nobody"); len(history) != 0 {
		t.Errorf("Read for unknown user returned %d turns, want 0", len(history))
	}
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	store := New(ctx, "", 5)

	store.Append(ctx, "u1", "сон", "ответ")
	store.Clear(ctx, "u1")

	if history := store.Read(ctx, "u1"); len(history) != 0 {
		t.Errorf("Read after Clear returned %d turns, want 0", len(history))
	}
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	store := New(ctx, "", 5)

	store.Append(ctx, "u1", "сон один", "ответ один")
	store.Append(ctx, "u2", "сон два", "ответ два")
	store.Clear(ctx, "u1")

	if history := store.Read(ctx, "u2"); len(history) != 1 {
		t.Errorf("clearing u1 affected u2: %d turns", len(history))
	}
}

func TestMemoryStoreReadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := New(ctx, "", 5)
	store.Append(ctx, "u1", "сон", "ответ")

	history := store.Read(ctx, "u1")
	history[0].User = "mutated"

	if got := store.Read(ctx, "u1"); got[0].User != "сон" {
		t.Error("Read must return a copy, not the backing slice")
	}
}

func TestNewFallsBackWhenRedisUnreachable(t *testing.T) {
	ctx := context.Background()

	// Construction with an unreachable backend must degrade silently
	// to the in-process store, never fail.
	store := New(ctx, "redis://127.0.0.1:1", 5)
	if _, ok := store.(*memoryStore); !ok {
		t.Fatalf("expected memory store fallback, got %T", store)
	}

	store = New(ctx, "://not-a-url", 5)
	if _, ok := store.(*memoryStore); !ok {
		t.Fatalf("expected memory store fallback for bad URL, got %T", store)
	}
}

func TestNewDefaultsMaxTurns(t *testing.T) {
	ctx := context.Background()
	store := New(ctx, "", 0)

	for i := 0; i < DefaultMaxTurns+2; i++ {
		store.Append(ctx, "u1", fmt.Sprintf("msg-%d", i), "r")
	}
	if history := store.Read(ctx, "u1"); len(history) != DefaultMaxTurns {
		t.Errorf("len = %d, want default %d", len(history), DefaultMaxTurns)
	}
}
