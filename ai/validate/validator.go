// Package validate checks generated replies against the active
// stage's content rules. Validation is advisory: a failing reply is
// logged by the caller and still delivered unmodified.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hrygo/dreamsense/ai/dialog"
)

const (
	minResponseLen = 100
	maxResponseLen = 1000
)

// Validator inspects a generated reply for a stage.
type Validator interface {
	Validate(response string, stage *dialog.Stage) (bool, []string)
}

// RuleValidator enforces the stage's required/forbidden element lists
// (case-insensitive substring match) and the response length window.
type RuleValidator struct{}

func NewRuleValidator() *RuleValidator {
	return &RuleValidator{}
}

func (v *RuleValidator) Validate(response string, stage *dialog.Stage) (bool, []string) {
	lower := strings.ToLower(response)
	var issues []string

	for _, required := range stage.RequiredElements {
		if !strings.Contains(lower, required) {
			issues = append(issues, fmt.Sprintf("отсутствует обязательный элемент: %s", required))
		}
	}
	for _, forbidden := range stage.ForbiddenElements {
		if strings.Contains(lower, forbidden) {
			issues = append(issues, fmt.Sprintf("обнаружен запрещенный элемент: %s", forbidden))
		}
	}

	switch length := utf8.RuneCountInString(response); {
	case length < minResponseLen:
		issues = append(issues, "ответ слишком короткий")
	case length > maxResponseLen:
		issues = append(issues, "ответ слишком длинный")
	}

	return len(issues) == 0, issues
}

// NoopValidator accepts everything. Use it when the engine should be
// constructed without content checks instead of probing for an
// optional validator.
type NoopValidator struct{}

func NewNoopValidator() *NoopValidator {
	return &NoopValidator{}
}

func (*NoopValidator) Validate(string, *dialog.Stage) (bool, []string) {
	return true, nil
}
