package summary

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/dreamsense/ai/session"
)

type stubGenerator struct {
	reply  string
	ok     bool
	prompt string
}

func (g *stubGenerator) Generate(_ context.Context, promptText string) (string, bool) {
	g.prompt = promptText
	return g.reply, g.ok
}

func TestSummarizeUsesGeneration(t *testing.T) {
	gen := &stubGenerator{reply: "  Краткое резюме сна.  ", ok: true}
	s := NewSummarizer(gen)

	turns := []session.Turn{
		{User: "Мне приснился лес.", Bot: "Что ты чувствовал?"},
		{User: "Было спокойно.", Bot: "Интересно."},
	}
	got := s.Summarize(context.Background(), turns, "Аня")

	assert.Equal(t, "Краткое резюме сна.", got)
	assert.Contains(t, gen.prompt, "Мне приснился лес.")
	assert.Contains(t, gen.prompt, "Было спокойно.")
	assert.Contains(t, gen.prompt, `Используй имя "Аня"`)
	// Assistant-side text is not part of the consolidated story.
	assert.NotContains(t, gen.prompt, "Что ты чувствовал?")
}

func TestSummarizeFallsBack(t *testing.T) {
	s := NewSummarizer(&stubGenerator{ok: false})

	turns := []session.Turn{
		{User: "Мне приснился лес. Потом я вышел к реке. Там было темно.", Bot: "..."},
	}
	got := s.Summarize(context.Background(), turns, "Аня")

	assert.NotEmpty(t, got)
	assert.Contains(t, got, "Аня")
	// First two sentences of the consolidated story.
	assert.Contains(t, got, "Мне приснился лес. Потом я вышел к реке.")
	assert.NotContains(t, got, "Там было темно")
}

func TestSummarizeEmptyTurns(t *testing.T) {
	gen := &stubGenerator{ok: false}
	s := NewSummarizer(gen)

	got := s.Summarize(context.Background(), nil, "")

	assert.NotEmpty(t, got)
	assert.Contains(t, got, "друг")
}

func TestSummarizeTruncatesLongStory(t *testing.T) {
	gen := &stubGenerator{reply: "резюме", ok: true}
	s := NewSummarizer(gen)

	turns := []session.Turn{
		{User: strings.Repeat("я ", 5000), Bot: ""},
	}
	_ = s.Summarize(context.Background(), turns, "Аня")

	// The consolidated story inside the prompt is bounded.
	assert.LessOrEqual(t, len([]rune(gen.prompt)), maxStoryRunes+1000)
}

func TestFallbackSummaryEmptyStory(t *testing.T) {
	got := FallbackSummary("друг", emptyStoryPlaceholder)
	assert.NotEmpty(t, got)
	assert.Contains(t, got, "Пользователь не оставил явного описания сна.")
}
