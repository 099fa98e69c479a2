// Package prompt builds the full generation request text for a
// resolved dialog stage: persona, stage rules, recent history, user
// context and emotional guidance.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hrygo/dreamsense/ai/dialog"
	"github.com/hrygo/dreamsense/ai/session"
)

// DefaultName substitutes a missing display name.
const DefaultName = "друг"

// historyWindow is how many recent turns are embedded in the prompt.
const historyWindow = 3

// SessionDigest is one line of a previous session's synopsis, used to
// surface recurring patterns to the model.
type SessionDigest struct {
	Message string
	Stage   string
}

// Request carries everything the composer needs for one turn.
type Request struct {
	Stage            *dialog.Stage
	Name             string
	Message          string
	History          []session.Turn // most-recent-first
	Tone             Tone
	PreviousSessions []SessionDigest
	SessionCount     int
	Age              int
	AgeKnown         bool
	OnTopic          bool
}

// Compose renders the generation request. When the message is
// off-topic the prompt instructs the model to politely decline and
// redirect, and the stage interpretation instructions are suppressed.
func Compose(req *Request) string {
	name := req.Name
	if name == "" {
		name = DefaultName
	}

	var sb strings.Builder
	sb.WriteString("Ты \"ИИ Сонник\" — эмпатичный психологический ассистент для интерпретации снов.\n")

	if !req.OnTopic {
		sb.WriteString("\n")
		sb.WriteString(offTopicGuidance)
		sb.WriteString("\n")
	} else {
		sb.WriteString("\n")
		sb.WriteString(req.Stage.SystemPrompt)
		sb.WriteString("\n\nЭТАП ДИАЛОГА: ")
		sb.WriteString(req.Stage.Key)
		sb.WriteString("\n\nТВОЯ ЗАДАЧА НА ЭТОМ ЭТАПЕ:\n")
		sb.WriteString(req.Stage.FollowUp)
		sb.WriteString("\n")
	}

	sb.WriteString("\nОБЯЗАТЕЛЬНО включи в ответ:\n")
	for _, elem := range req.Stage.RequiredElements {
		sb.WriteString("- ")
		sb.WriteString(elem)
		sb.WriteString("\n")
	}
	sb.WriteString("\nНИКОГДА не включай:\n")
	for _, elem := range req.Stage.ForbiddenElements {
		sb.WriteString("- ")
		sb.WriteString(elem)
		sb.WriteString("\n")
	}

	switch req.Tone {
	case ToneNegative:
		sb.WriteString("\n⚠️ ВАЖНО: Пользователь испытывает тревогу. " +
			"Будь особенно поддерживающим и мягким. " +
			"Не усугубляй тревогу. Фокусируйся на поддержке, а не на глубоком анализе.\n")
	case TonePositive:
		sb.WriteString("\n✅ Пользователь в позитивном настроении. Поддержи это состояние.\n")
	}

	if req.Stage.Key == dialog.StageGreeting && name != DefaultName && req.AgeKnown && req.OnTopic {
		fmt.Fprintf(&sb, "\nВАЖНО: Это первое сообщение пользователя. "+
			"Поприветствуй его по имени: 'Привет, %s!'. "+
			"Упомяни его возраст (%d лет) естественным образом, например: "+
			"'Учитывая твой возраст (%d лет), я учту контекст для более точного анализа'. "+
			"Будь теплым и дружелюбным.\n", name, req.Age, req.Age)
	}

	if greeting := sessionCountContext(req.SessionCount); greeting != "" {
		sb.WriteString("\n")
		sb.WriteString(greeting)
		sb.WriteString("\n")
	}

	sb.WriteString("\nКОНТЕКСТ:\n- Имя пользователя: ")
	sb.WriteString(name)
	if req.AgeKnown {
		fmt.Fprintf(&sb, "\n- Возраст пользователя: %d лет (учитывай возрастной контекст при интерпретации)", req.Age)
	}

	if digest := previousSessionsContext(req.PreviousSessions); digest != "" {
		sb.WriteString("\n")
		sb.WriteString(digest)
	}

	sb.WriteString("\n- История диалога:\n")
	sb.WriteString(historyContext(req.History))

	sb.WriteString("\n\nСООБЩЕНИЕ ПОЛЬЗОВАТЕЛЯ: ")
	sb.WriteString(req.Message)

	fmt.Fprintf(&sb, "\n\nОТВЕТЬ:\n"+
		"1. Строго следуй правилам этапа %s\n"+
		"2. Включи все обязательные элементы\n"+
		"3. Избегай запрещенных элементов\n"+
		"4. Будь конкретным и релевантным\n"+
		"5. Длина: 2-4 абзаца (не больше!)\n"+
		"6. Говори на \"ты\", дружелюбно\n"+
		"7. Используй имя \"%s\" естественно (1-2 раза)\n", req.Stage.Key, name)

	return strings.TrimSpace(sb.String())
}

// historyContext renders the last up-to-3 turns oldest-first.
func historyContext(history []session.Turn) string {
	if len(history) == 0 {
		return "Это начало разговора."
	}
	window := history
	if len(window) > historyWindow {
		window = window[:historyWindow]
	}
	lines := make([]string, 0, len(window))
	for i := len(window) - 1; i >= 0; i-- {
		lines = append(lines, "Пользователь: "+window[i].User+"\nСонник: "+window[i].Bot)
	}
	return strings.Join(lines, "\n")
}

// previousSessionsContext embeds up to 3 prior session digests so the
// model can spot recurring dream patterns.
func previousSessionsContext(sessions []SessionDigest) string {
	if len(sessions) == 0 {
		return ""
	}
	if len(sessions) > 3 {
		sessions = sessions[len(sessions)-3:]
	}
	var sb strings.Builder
	sb.WriteString("- Предыдущие сны пользователя (для выявления паттернов):\n")
	for i, s := range sessions {
		fmt.Fprintf(&sb, "  %d. %s... (этап: %s)\n", i+1, truncateRunes(s.Message, 100), s.Stage)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func sessionCountContext(count int) string {
	switch {
	case count == 1:
		return "Пользователь вернулся во второй раз. Спроси, как дела, есть ли новые сны или вопросы."
	case count > 1:
		return fmt.Sprintf("Пользователь уже был здесь %d раз. Вспомни предыдущие разговоры и покажи, что ты помнишь о нем.", count)
	default:
		return "Это первая сессия пользователя. Поприветствуй тепло и создай доверительную атмосферу."
	}
}

func truncateRunes(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen])
}

const offTopicGuidance = `⚠️ ВАЖНО: Сообщение пользователя НЕ связано со снами или интерпретацией снов.
Это может быть общий вопрос, вопрос о чем-то другом, или просто разговор.

ТВОЯ ЗАДАЧА:
1. ВЕЖЛИВО объясни, что ты специализируешься на интерпретации снов
2. НЕ пытайся связать это сообщение со снами
3. НЕ давай интерпретацию или анализ этого сообщения как сна
4. Предложи вернуться к обсуждению снов
5. Будь дружелюбным и понимающим

НЕ говори что-то вроде "это может быть связано со сном" или "возможно, это отражает твой сон".`
