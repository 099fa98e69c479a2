// Package relevance decides whether a message belongs to the
// assistant's domain (dream interpretation). It is a layered keyword
// heuristic with a fixed rule order, not a trained classifier; ties
// break in rule order and earlier rules always win.
package relevance

import (
	"strings"
	"unicode/utf8"

	"github.com/hrygo/dreamsense/ai/session"
)

// dreamKeywords mark a message or history window as on-topic. The
// list is matched as case-insensitive substrings and must not be
// "improved": over- and under-eager matches are part of the contract.
var dreamKeywords = []string{
	"сон", "сны", "сновидение", "сновидения", "приснилось", "приснился",
	"приснилась", "приснились", "видел во сне", "видела во сне",
	"снилось", "снился", "снилась", "снились", "сонник", "интерпретация",
	"значение сна", "что значит сон", "объясни сон", "толкование", "толковать",
	"расшифровать", "расшифровка", "объясни что значит", "что означает",
	"во сне", "во снах", "мой сон", "мои сны", "этот сон", "эти сны",
}

// generalPhrases are small-talk or logistics questions that veto a
// message when neither it nor the recent history mentions dreams.
var generalPhrases = []string{
	"как дела", "что нового", "как жизнь", "что делаешь", "как поживаешь",
	"который час", "какая погода", "что на ужин", "что приготовить",
	"как приготовить", "рецепт", "где купить", "сколько стоит",
	"кто такой", "когда", "где находится", "как добраться",
	"привет", "здравствуй", "добрый день", "добрый вечер", "доброе утро",
}

// shortMessageThreshold is the rune length below which a message with
// no domain signal in the last two turns is treated as off-topic.
const shortMessageThreshold = 15

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// IsOnTopic applies the rules in priority order:
//  1. domain keyword in the message -> on-topic
//  2. domain keyword in the last 3 history turns -> on-topic
//  3. general phrase and no domain signal in history -> off-topic
//  4. short message and no domain keyword in the last 2 turns -> off-topic
//  5. no history at all -> off-topic
//  6. otherwise -> on-topic
func (c *Classifier) IsOnTopic(message string, history []session.Turn) bool {
	lower := strings.ToLower(strings.TrimSpace(message))

	if containsAny(lower, dreamKeywords) {
		return true
	}

	if len(history) > 0 && containsAny(historyText(history, 3), dreamKeywords) {
		return true
	}

	if containsAny(lower, generalPhrases) {
		if len(history) == 0 {
			return false
		}
		if !containsAny(historyText(history, 3), dreamKeywords) {
			return false
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(message)) < shortMessageThreshold {
		if len(history) == 0 {
			return false
		}
		if !containsAny(historyText(history, 2), dreamKeywords) {
			return false
		}
	}

	if len(history) == 0 {
		return false
	}

	return true
}

// historyText concatenates user and assistant text of the most recent
// n turns, lowercased.
func historyText(history []session.Turn, n int) string {
	if len(history) < n {
		n = len(history)
	}
	var sb strings.Builder
	for _, turn := range history[:n] {
		sb.WriteString(turn.User)
		sb.WriteString(" ")
		sb.WriteString(turn.Bot)
		sb.WriteString(" ")
	}
	return strings.ToLower(sb.String())
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
