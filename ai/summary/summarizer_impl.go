package summary

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hrygo/dreamsense/ai/prompt"
	"github.com/hrygo/dreamsense/ai/session"
)

// maxStoryRunes bounds the consolidated user text embedded in the
// summarization prompt.
const maxStoryRunes = 4000

const emptyStoryPlaceholder = "Пользователь не оставил явного описания сна."

type dreamSummarizer struct {
	gen Generator
}

// NewSummarizer builds a Summarizer on top of the generation client.
func NewSummarizer(gen Generator) Summarizer {
	return &dreamSummarizer{gen: gen}
}

func (s *dreamSummarizer) Summarize(ctx context.Context, turns []session.Turn, name string) string {
	if name == "" {
		name = prompt.DefaultName
	}
	story := consolidateUserStory(turns)

	if reply, ok := s.gen.Generate(ctx, summaryPrompt(name, story)); ok {
		return strings.TrimSpace(reply)
	}
	return FallbackSummary(name, story)
}

// consolidateUserStory joins all user-side text in chronological
// order, truncated to the rune budget.
func consolidateUserStory(turns []session.Turn) string {
	var texts []string
	for _, t := range turns {
		if txt := strings.TrimSpace(t.User); txt != "" {
			texts = append(texts, txt)
		}
	}
	story := strings.TrimSpace(strings.Join(texts, "\n"))
	if story == "" {
		return emptyStoryPlaceholder
	}
	return truncateRunes(story, maxStoryRunes)
}

func summaryPrompt(name, story string) string {
	return fmt.Sprintf(`Ты "ИИ Сонник" — эмпатичный психологический ассистент по интерпретации снов.

ТЕБЕ НУЖНО СДЕЛАТЬ КОРОТКОЕ РЕЗЮМЕ СНА (5-8 предложений), включающее:
1) Краткий сюжет сна (1-2 предложения).
2) Основные эмоции и переживания.
3) Возможные психологические смыслы и темы (без мистики).
4) 1-2 практических шага для рефлексии.

Пиши естественно, дружелюбно, на "ты". Используй имя "%s" не более 1 раза.

ОРИГИНАЛЬНОЕ ОПИСАНИЕ СНА (собранное из сообщений пользователя):
---
%s
---

ВЫВЕДИ ТОЛЬКО РЕЗЮМЕ, БЕЗ ПРЕАМБУЛ И ЗАКЛЮЧИТЕЛЬНЫХ ФРАЗ.`, name, story)
}

func truncateRunes(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen])
}
