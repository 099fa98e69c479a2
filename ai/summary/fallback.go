package summary

import (
	"fmt"
	"strings"
)

// FallbackSummary is the deterministic heuristic synopsis: the first
// two sentences of the consolidated story plus a fixed supportive
// closing.
func FallbackSummary(name, story string) string {
	plot := firstSentences(story, 2)
	return fmt.Sprintf(
		"%s, судя по твоему рассказу, сон затрагивает важные для тебя переживания. %s\n\n"+
			"Эмоционально это может быть связано с внутренним напряжением или потребностью в опоре.\n"+
			"Возможно, сон отражает темы контроля, неопределенности или поиска ясности.\n\n"+
			"Попробуй отметить, какие моменты во сне вызвали самые сильные эмоции, и есть ли похожие ситуации в реальности.\n"+
			"Поддержи себя: выспись, сделай короткую запись сна и обрати внимание на повторяющиеся мотивы — они подскажут, что сейчас важно.",
		name, plot)
}

// firstSentences returns up to n leading sentences, split on periods.
func firstSentences(text string, n int) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	var sentences []string
	for _, part := range strings.Split(flat, ".") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
		if len(sentences) == n {
			break
		}
	}
	if len(sentences) == 0 {
		return ""
	}
	return strings.Join(sentences, ". ") + "."
}
