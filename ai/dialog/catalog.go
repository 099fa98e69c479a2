package dialog

// Stage keys of the fixed conversation sequence, in order.
const (
	StageGreeting    = "greeting"
	StageExploration = "exploration"
	StageAnalysis    = "analysis"
	StageClosing     = "closing"
)

// Stage is one phase of the conversation with its generation rules.
// Stages are immutable and defined at process start.
type Stage struct {
	Key          string
	SystemPrompt string
	FollowUp     string
	Hint         string

	// RequiredElements must appear in a generated reply for this stage;
	// ForbiddenElements must not. Both are matched as case-insensitive
	// substrings by the validator.
	RequiredElements  []string
	ForbiddenElements []string
}

// Catalog is the ordered, fixed set of stages. Index 0 is the initial
// stage; the last index is terminal and repeating.
type Catalog struct {
	stages []*Stage
	byKey  map[string]*Stage
}

func NewCatalog() *Catalog {
	return newCatalog(defaultStages)
}

func newCatalog(stages []*Stage) *Catalog {
	byKey := make(map[string]*Stage, len(stages))
	for _, s := range stages {
		byKey[s.Key] = s
	}
	return &Catalog{stages: stages, byKey: byKey}
}

// Get returns the stage for the given key.
func (c *Catalog) Get(key string) (*Stage, bool) {
	s, ok := c.byKey[key]
	return s, ok
}

// StageForTurn returns the stage at the given turn index, clamped to
// the last stage. This is the linear fallback when no transition rule
// fires.
func (c *Catalog) StageForTurn(turnIndex int) *Stage {
	if turnIndex < 0 {
		turnIndex = 0
	}
	if turnIndex >= len(c.stages) {
		turnIndex = len(c.stages) - 1
	}
	return c.stages[turnIndex]
}

// First returns the initial stage.
func (c *Catalog) First() *Stage {
	return c.stages[0]
}

func (c *Catalog) indexOf(stage *Stage) int {
	for i, s := range c.stages {
		if s.Key == stage.Key {
			return i
		}
	}
	return 0
}

var defaultStages = []*Stage{
	{
		Key: StageGreeting,
		SystemPrompt: "Ты эмпатичный психологический ассистент для интерпретации снов. " +
			"Твоя задача - создать доверительную атмосферу и мотивировать пользователя поделиться сном. " +
			"Будь теплым, но не навязчивым. Используй имя пользователя естественно.",
		FollowUp: "Поприветствуй пользователя по имени. " +
			"Поблагодари за доверие. " +
			"Спроси, какой сон его сегодня особенно зацепил или беспокоит. " +
			"НЕ давай интерпретацию на этом этапе - только слушай.",
		Hint:              "Расскажи о своем сне: что ты видел, какие эмоции испытывал?",
		RequiredElements:  []string{"приветствие", "благодарность", "вопрос о сне"},
		ForbiddenElements: []string{"интерпретация", "анализ", "советы"},
	},
	{
		Key: StageExploration,
		SystemPrompt: "Ты помогаешь пользователю детально описать сон. " +
			"Задавай открытые вопросы, которые помогут понять эмоции, контекст и детали. " +
			"Избегай наводящих вопросов - пусть пользователь сам рассказывает.",
		FollowUp: "Уточни ключевые детали сна: " +
			"1. Где происходило действие? " +
			"2. Кто был рядом? " +
			"3. Какие эмоции испытывал пользователь? " +
			"4. Что происходило в его жизни накануне? " +
			"Задай 1-2 конкретных вопроса для прояснения. " +
			"НЕ давай интерпретацию - только собирай информацию.",
		Hint:              "Опиши детали: где происходило действие? Кто был рядом? Что ты чувствовал?",
		RequiredElements:  []string{"вопросы для уточнения", "просьба описать детали"},
		ForbiddenElements: []string{"интерпретация", "выводы", "советы"},
	},
	{
		Key: StageAnalysis,
		SystemPrompt: "Ты даешь психологическую интерпретацию сна БЕЗ эзотерики и мистики. " +
			"Используй только научный психологический подход. " +
			"Связывай сон с реальной жизнью пользователя, его эмоциями и переживаниями.",
		FollowUp: "Дай психологическую интерпретацию сна: " +
			"1. Что сон может отражать в реальной жизни пользователя? " +
			"2. Какие эмоции или переживания он символизирует? " +
			"3. Есть ли связь с текущей жизненной ситуацией? " +
			"Будь конкретным, но не директивным. " +
			"Предложи 1-2 практических шага для рефлексии.",
		Hint:              "Подумай: есть ли связь с твоей текущей жизненной ситуацией?",
		RequiredElements:  []string{"интерпретация", "связь с реальностью", "практические шаги"},
		ForbiddenElements: []string{"мистика", "эзотерика", "гадание", "предсказания"},
	},
	{
		Key: StageClosing,
		SystemPrompt: "Ты завершаешь разговор, подводя итоги и поддерживая пользователя. " +
			"Покажи, что разговор был полезен. " +
			"Пригласи вернуться, но не навязывай.",
		FollowUp: "Подведи краткие итоги разговора (1-2 предложения). " +
			"Поддержи пользователя. " +
			"Пригласи вернуться с новыми снами или вопросами. " +
			"Будь теплым, но не навязчивым.",
		Hint:              "Хочешь обсудить еще что-то или задать вопрос?",
		RequiredElements:  []string{"итоги", "поддержка", "приглашение вернуться"},
		ForbiddenElements: []string{"новые вопросы", "глубокая интерпретация"},
	},
}
