// Package summary condenses a whole conversation into a short closing
// synopsis of the dream, using the generation service when available
// and a deterministic heuristic otherwise.
package summary

import (
	"context"

	"github.com/hrygo/dreamsense/ai/session"
)

// Generator is the slice of the generation client the summarizer
// needs. The boolean reports whether a usable reply was produced.
type Generator interface {
	Generate(ctx context.Context, promptText string) (string, bool)
}

// Summarizer builds a closing synopsis from the turn sequence.
type Summarizer interface {
	// Summarize never fails: when generation is unavailable it falls
	// back to a heuristic synopsis, so the result is always non-empty.
	Summarize(ctx context.Context, turns []session.Turn, name string) string
}
