// Package fallback produces deterministic, stage-keyed responses used
// whenever the generation service is unreachable, unauthenticated or
// returns no usable content. Every stage always yields a non-empty
// reply.
package fallback

import (
	"fmt"
	"unicode/utf8"

	"github.com/hrygo/dreamsense/ai/dialog"
	"github.com/hrygo/dreamsense/ai/prompt"
)

var explorationFocus = []string{"эмоции", "ощущения", "детали", "контекст"}

var analysisInterpretations = []string{
	"может отражать твои внутренние переживания",
	"возможно, связан с твоими неосознанными страхами или желаниями",
	"может быть отражением твоего текущего эмоционального состояния",
}

// Response renders the template for the given stage. The exploration
// focus keyword and the analysis interpretation rotate by message
// length so the same input always produces the same reply.
func Response(stageKey, name string, age int, ageKnown bool, message string) string {
	if name == "" {
		name = prompt.DefaultName
	}

	switch stageKey {
	case dialog.StageGreeting:
		ageText := ""
		if name != prompt.DefaultName && ageKnown {
			ageText = fmt.Sprintf(" Учитывая твой возраст (%d лет), я учту контекст для более точного анализа.", age)
		}
		return fmt.Sprintf(
			"Привет, %s! Спасибо, что поделился своим сном. Я вижу, что тебе важно разобраться в его значении.%s\n\n"+
				"Сны часто отражают наши внутренние переживания и нерешённые вопросы. Давай вместе исследуем, что твой сон может рассказать о тебе.\n\n"+
				"Расскажи, какие эмоции ты испытал во сне? Что особенно запомнилось?",
			name, ageText)

	case dialog.StageExploration:
		focus := pick(explorationFocus, message)
		return fmt.Sprintf(
			"Интересно, %s. Чтобы лучше понять твой сон, мне важно узнать больше о %s.\n\n"+
				"Что ты чувствовал во сне? Было ли это страшно, тревожно, или наоборот — спокойно?\n"+
				"А что происходит в твоей жизни сейчас — есть ли что-то, что тебя беспокоит или радует?\n\n"+
				"Эти детали помогут нам найти связь между сном и твоим внутренним состоянием.",
			name, focus)

	case dialog.StageAnalysis:
		interpretation := pick(analysisInterpretations, message)
		return fmt.Sprintf(
			"%s, с психологической точки зрения, этот сон %s.\n\n"+
				"Сны — это способ нашего подсознания общаться с нами. Они помогают нам увидеть то, что мы не замечаем в повседневной жизни.\n\n"+
				"Попробуй подумать: есть ли в твоей жизни сейчас ситуации, которые вызывают похожие эмоции? Что ты можешь сделать, чтобы поддержать себя?",
			name, interpretation)

	default: // closing and anything unknown
		return fmt.Sprintf(
			"%s, спасибо за доверие. Надеюсь, наш разговор помог тебе лучше понять себя.\n\n"+
				"Помни: сны — это инструмент самопознания. Продолжай обращать внимание на них, записывай свои сны и размышляй над ними.\n\n"+
				"Я всегда готов продолжить наш разговор, когда у тебя появятся новые сны или вопросы.",
			name)
	}
}

// OffTopicRedirect is the fixed reply for messages outside the
// assistant's domain.
func OffTopicRedirect(name string) string {
	if name == "" {
		name = prompt.DefaultName
	}
	return fmt.Sprintf(
		"Извини, %s, но я специализируюсь на интерпретации снов. "+
			"Я могу помочь тебе разобраться в значении твоих снов, но не могу ответить на общие вопросы или вопросы, не связанные со снами.\n\n"+
			"Расскажи, может быть, у тебя есть сон, который тебя беспокоит или интересует? Я буду рад помочь с его интерпретацией.",
		name)
}

func pick(options []string, message string) string {
	return options[utf8.RuneCountInString(message)%len(options)]
}
