// Package ai orchestrates one conversational turn: topic
// classification, stage resolution, prompt composition, generation
// with fallback substitution, and advisory validation. Nothing in this
// package surfaces an error to the request boundary; every path ends
// in a deterministic, non-empty reply.
package ai

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/hrygo/dreamsense/ai/dialog"
	"github.com/hrygo/dreamsense/ai/fallback"
	"github.com/hrygo/dreamsense/ai/prompt"
	"github.com/hrygo/dreamsense/ai/relevance"
	"github.com/hrygo/dreamsense/ai/session"
	"github.com/hrygo/dreamsense/ai/validate"
)

// Profile is the transient per-request user context. The core never
// persists it.
type Profile struct {
	Name      string
	BirthDate string // ISO calendar date, optional
}

// Generator is the generation-service slice the interpreter depends
// on. The boolean reports whether a usable reply was produced; false
// switches the turn to the fallback generator.
type Generator interface {
	Generate(ctx context.Context, promptText string) (string, bool)
}

// Greeting and farewell phrase lists for the off-topic short-circuits.
// A greeting-like opener gets the greeting template instead of the
// redirect; a farewell always closes the conversation warmly.
var (
	greetingPhrases = []string{
		"привет", "прив", "здравствуй", "здравствуйте", "здрасте",
		"добрый день", "добрый вечер", "доброе утро",
		"hello", "hi", "hey", "yo", "йо", "йоу", "салют",
	}
	farewellPhrases = []string{
		"пока", "до свидания", "прощай", "увидимся", "всего доброго", "доброй ночи",
		"спасибо, пока", "спасибо пока", "до встречи", "покеда", "бай",
		"bye", "goodbye", "see you",
	}

	punctuationRe = regexp.MustCompile(`[^a-zа-яё0-9\s]`)
)

// Interpreter ties the dialog components together. It always has a
// classifier, a transition engine and a validator by construction.
type Interpreter struct {
	catalog    *dialog.Catalog
	engine     *dialog.Engine
	classifier *relevance.Classifier
	validator  validate.Validator
	generator  Generator
	now        func() time.Time
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithValidator replaces the default rule validator.
func WithValidator(v validate.Validator) Option {
	return func(i *Interpreter) { i.validator = v }
}

func NewInterpreter(gen Generator, opts ...Option) *Interpreter {
	catalog := dialog.NewCatalog()
	interp := &Interpreter{
		catalog:    catalog,
		engine:     dialog.NewEngine(catalog),
		classifier: relevance.NewClassifier(),
		validator:  validate.NewRuleValidator(),
		generator:  gen,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(interp)
	}
	return interp
}

// Catalog exposes the stage catalog for hint lookups at the boundary.
func (i *Interpreter) Catalog() *dialog.Catalog {
	return i.catalog
}

// ResolveStage returns the stage the transition engine picks for the
// incoming message.
func (i *Interpreter) ResolveStage(history []session.Turn, message string) *dialog.Stage {
	return i.engine.NextStage(history, message)
}

// Interpret handles one turn and returns the reply and the resolved
// stage key.
func (i *Interpreter) Interpret(
	ctx context.Context,
	profile Profile,
	message string,
	history []session.Turn,
	previousSessions []prompt.SessionDigest,
	sessionCount int,
) (string, string) {
	onTopic := i.classifier.IsOnTopic(message, history)
	slog.Debug("interpreter: topic check", "on_topic", onTopic, "history_len", len(history))

	age, ageKnown := prompt.Age(profile.BirthDate, i.now())

	if !onTopic {
		return i.offTopicReply(profile, message, history, age, ageKnown)
	}

	stage := i.engine.NextStage(history, message)
	composed := prompt.Compose(&prompt.Request{
		Stage:            stage,
		Name:             profile.Name,
		Message:          message,
		History:          history,
		Tone:             prompt.DetectTone(message),
		PreviousSessions: previousSessions,
		SessionCount:     sessionCount,
		Age:              age,
		AgeKnown:         ageKnown,
		OnTopic:          true,
	})

	if reply, ok := i.generator.Generate(ctx, composed); ok {
		if valid, issues := i.validator.Validate(reply, stage); !valid {
			// Advisory only: log and deliver the reply unchanged.
			slog.Warn("interpreter: response validation failed",
				"stage", stage.Key,
				"issues", strings.Join(issues, "; "),
			)
		}
		slog.Info("interpreter: using generated reply", "stage", stage.Key)
		return reply, stage.Key
	}

	slog.Info("interpreter: using fallback reply", "stage", stage.Key)
	return fallback.Response(stage.Key, profile.Name, age, ageKnown, message), stage.Key
}

// offTopicReply handles the short-circuits for messages outside the
// domain: greeting-like openers and farewells get their stage
// templates; a first message with no signal gets a warm greeting
// instead of a hard redirect; anything else gets the redirect.
func (i *Interpreter) offTopicReply(
	profile Profile,
	message string,
	history []session.Turn,
	age int,
	ageKnown bool,
) (string, string) {
	normalized := normalizeMessage(message)

	if containsAny(normalized, greetingPhrases) {
		return fallback.Response(dialog.StageGreeting, profile.Name, age, ageKnown, message), dialog.StageGreeting
	}
	if containsAny(normalized, farewellPhrases) {
		return fallback.Response(dialog.StageClosing, profile.Name, age, ageKnown, message), dialog.StageClosing
	}
	if len(history) == 0 {
		return fallback.Response(dialog.StageGreeting, profile.Name, age, ageKnown, message), dialog.StageGreeting
	}

	slog.Info("interpreter: off-topic message, redirecting")
	return fallback.OffTopicRedirect(profile.Name), dialog.StageGreeting
}

// normalizeMessage lowercases and strips punctuation so phrase lists
// match regardless of "Привет!!!"-style decoration.
func normalizeMessage(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))
	return punctuationRe.ReplaceAllString(lower, " ")
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
