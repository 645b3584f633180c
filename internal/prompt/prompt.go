// Package prompt defines the interactive question collaborator used by bootstrap steps.
package prompt

import (
	"context"
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
)

// Kind is the shape of a question.
type Kind int

// Question kinds.
const (
	Input Kind = iota
	Select
	Confirm
)

// Confirm answers.
const (
	Yes = "yes"
	No  = "no"
)

// Choice is one option of a Select question.
type Choice struct {
	Label string
	Value string
}

// Question describes one prompt. Name keys the answer; Message is shown to the user.
type Question struct {
	Kind     Kind
	Name     string
	Message  string
	Choices  []Choice
	Default  string
	Secret   bool
	Validate func(string) error
}

// Asker asks one question and returns the answer.
// Confirm questions answer Yes or No.
type Asker interface {
	Ask(ctx context.Context, q Question) (string, error)
}

// Check reports whether answer is acceptable for q.
func (q Question) Check(answer string) error {
	switch q.Kind {
	case Select:
		if !slices.ContainsFunc(q.Choices, func(c Choice) bool { return c.Value == answer }) {
			return apperrors.ErrInvalidChoice(q.Name, answer)
		}
	case Confirm:
		if answer != Yes && answer != No {
			return apperrors.ErrInvalidChoice(q.Name, answer)
		}
	}
	if q.Validate != nil {
		if err := q.Validate(answer); err != nil {
			return fmt.Errorf("invalid answer for %s: %w", q.Name, err)
		}
	}
	return nil
}

// AskConfirm asks a yes/no question.
func AskConfirm(ctx context.Context, asker Asker, name, message string, def bool) (bool, error) {
	q := Question{Kind: Confirm, Name: name, Message: message, Default: No}
	if def {
		q.Default = Yes
	}
	answer, err := asker.Ask(ctx, q)
	if err != nil {
		return false, err
	}
	return answer == Yes, nil
}

// AskInput asks a free-text question and trims the answer.
func AskInput(ctx context.Context, asker Asker, q Question) (string, error) {
	q.Kind = Input
	answer, err := asker.Ask(ctx, q)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// BoolAnswer renders b as a Confirm answer.
func BoolAnswer(b bool) string {
	if b {
		return Yes
	}
	return No
}
