package bootstrap

import (
	"errors"

	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
)

// StepError attributes a failure to the step that produced it.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step name recorded on err, or "".
func FailedStep(err error) string {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}

func wrapStep(step string, err error) error {
	var be *apperrors.BootstrapError
	if errors.As(err, &be) {
		be.WithDetail(apperrors.DetailStep, step)
	}
	return &StepError{Step: step, Err: err}
}
