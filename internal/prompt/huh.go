package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("prompt aborted by user")

// Terminal asks questions on the controlling terminal.
type Terminal struct {
	accessible bool
}

// NewTerminal creates a Terminal asker. ACCESSIBLE in the environment switches to plain line prompts.
func NewTerminal() *Terminal {
	return &Terminal{accessible: os.Getenv("ACCESSIBLE") != ""}
}

// Ask renders q as a single-field form and blocks until it is answered.
func (t *Terminal) Ask(ctx context.Context, q Question) (string, error) {
	answer := q.Default
	var field huh.Field

	switch q.Kind {
	case Select:
		options := make([]huh.Option[string], 0, len(q.Choices))
		for _, c := range q.Choices {
			options = append(options, huh.NewOption(c.Label, c.Value))
		}
		field = huh.NewSelect[string]().
			Title(q.Message).
			Options(options...).
			Value(&answer)
	case Confirm:
		confirmed := q.Default == Yes
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(q.Message).
				Value(&confirmed),
		)).WithAccessible(t.accessible)
		if err := run(ctx, form); err != nil {
			return "", err
		}
		return BoolAnswer(confirmed), nil
	default:
		input := huh.NewInput().
			Title(q.Message).
			Value(&answer).
			Validate(func(s string) error {
				if q.Validate == nil {
					return nil
				}
				return q.Validate(s)
			})
		if q.Default != "" {
			input = input.Placeholder(q.Default)
		}
		if q.Secret {
			input = input.EchoMode(huh.EchoModePassword)
		}
		field = input
	}

	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(t.accessible)
	if err := run(ctx, form); err != nil {
		return "", err
	}

	if answer == "" {
		answer = q.Default
	}
	if err := q.Check(answer); err != nil {
		return "", err
	}
	return answer, nil
}

func run(ctx context.Context, form *huh.Form) error {
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}
