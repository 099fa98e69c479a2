package prompt

import "strings"

// Tone is the detected emotional tone of a message.
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
)

// Fixed lexicons. Matching is case-insensitive substring; the lists
// themselves are part of the behavioral contract.
var (
	positiveWords = []string{"хорошо", "радость", "счастье", "спокойно", "приятно", "отлично"}
	negativeWords = []string{"страх", "тревога", "грустно", "боюсь", "плохо", "страшно", "ужас", "паника"}
)

// DetectTone counts positive and negative lexicon hits in the message.
// Negative wins ties against positive only when it strictly outnumbers
// it; equal counts are neutral.
func DetectTone(message string) Tone {
	lower := strings.ToLower(message)
	var positive, negative int
	for _, word := range positiveWords {
		if strings.Contains(lower, word) {
			positive++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			negative++
		}
	}
	switch {
	case negative > positive:
		return ToneNegative
	case positive > negative:
		return TonePositive
	default:
		return ToneNeutral
	}
}
