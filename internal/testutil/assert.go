package testutil

import (
	stderrors "errors"
	"testing"

	apperrors "github.com/chiptune-stack/chiptune/internal/errors"

	"github.com/stretchr/testify/assert"
)

// AssertErrorType checks if the error is of a specific type using errors.Is.
func AssertErrorType(t *testing.T, err, target error, _ ...any) bool {
	t.Helper()
	if !stderrors.Is(err, target) {
		return assert.Fail(t, "Error type mismatch", "Expected error type %T, got %T (%v)", target, err, err)
	}
	return true
}

// AssertErrorCode checks if the error has a specific bootstrap error code.
func AssertErrorCode(t *testing.T, err error, expectedCode string, _ ...any) bool {
	t.Helper()
	code := apperrors.GetErrorCode(err)
	if code != expectedCode {
		return assert.Fail(t, "Error code mismatch", "Expected error code %q, got %q (%v)", expectedCode, code, err)
	}
	return true
}

// AssertErrorDetail checks one detail value recorded on a bootstrap error.
func AssertErrorDetail(t *testing.T, err error, key, expected string, _ ...any) bool {
	t.Helper()
	got := apperrors.GetDetail(err, key)
	if got != expected {
		return assert.Fail(t, "Error detail mismatch", "Expected %s=%q, got %q", key, expected, got)
	}
	return true
}
