package dialog

import (
	"strings"
	"unicode/utf8"

	"github.com/hrygo/dreamsense/ai/session"
)

// Signal lexicons. Behavior of the transition rules, including how
// eagerly they match, is a contractual property covered by tests, so
// the lists stay as-is.
var (
	questionMarkers = []string{"почему", "что значит", "как понять", "объясни", "что это"}
	greetingWords   = []string{"привет", "здравствуй", "добрый"}
	thanksWords     = []string{"спасибо", "понял", "ясно", "благодарю"}
	goodbyeWords    = []string{"до свидания", "пока", "увидимся"}
)

// detailThreshold is the message length (in runes) above which a
// message counts as a detailed description.
const detailThreshold = 150

type messageSignals struct {
	hasQuestion bool
	hasDetails  bool
	hasGreeting bool
	hasThanks   bool
	hasGoodbye  bool
	turnCount   int
}

func analyzeMessage(message string, history []session.Turn) messageSignals {
	lower := strings.ToLower(message)
	return messageSignals{
		hasQuestion: containsAny(lower, questionMarkers),
		hasDetails:  utf8.RuneCountInString(message) > detailThreshold,
		hasGreeting: containsAny(lower, greetingWords),
		hasThanks:   containsAny(lower, thanksWords),
		hasGoodbye:  containsAny(lower, goodbyeWords),
		turnCount:   len(history),
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// Engine resolves the stage for the current turn. Transitions are
// history-driven: the engine looks at the stage implied by the turn
// count and advances it when the message carries the matching signal.
type Engine struct {
	catalog *Catalog
}

func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// NextStage selects the stage for the incoming message. An empty
// history always resolves to the first stage regardless of content.
func (e *Engine) NextStage(history []session.Turn, message string) *Stage {
	if len(history) == 0 {
		return e.catalog.First()
	}

	signals := analyzeMessage(message, history)
	current := e.catalog.StageForTurn(len(history) - 1)

	switch current.Key {
	case StageGreeting:
		if signals.hasQuestion || signals.hasDetails {
			return e.advance(current)
		}
	case StageExploration:
		if signals.hasQuestion && signals.hasDetails {
			return e.advance(current)
		}
		if signals.turnCount >= 2 && signals.hasDetails {
			return e.advance(current)
		}
	case StageAnalysis:
		if signals.hasThanks || signals.hasGoodbye {
			return e.advance(current)
		}
		if signals.turnCount >= 3 {
			return e.advance(current)
		}
	case StageClosing:
		// Terminal stage, repeats.
		return current
	}

	return e.catalog.StageForTurn(len(history))
}

func (e *Engine) advance(current *Stage) *Stage {
	idx := e.catalog.indexOf(current) + 1
	if idx >= len(e.catalog.stages) {
		idx = len(e.catalog.stages) - 1
	}
	return e.catalog.stages[idx]
}
