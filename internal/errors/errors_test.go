package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BootstrapError
		expected string
	}{
		{
			name: "error with cause",
			err: &BootstrapError{
				Code:    ErrCodeInvalidDocument,
				Message: "invalid document infra/main.parameters.json",
				Cause:   errors.New("unexpected end of JSON input"),
			},
			expected: "invalid document infra/main.parameters.json: unexpected end of JSON input",
		},
		{
			name:     "error without cause",
			err:      ErrNoSubscriptionFound(),
			expected: "login succeeded but no Azure subscription is available to this account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestBootstrapError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("provision: %w", ErrProcessFailure("az login", 1, "boom"))

	assert.True(t, errors.Is(err, ProcessFailure))
	assert.False(t, errors.Is(err, TimedOut))
	assert.Equal(t, ErrCodeProcessFailure, GetErrorCode(err))
}

func TestErrProcessFailure(t *testing.T) {
	err := ErrProcessFailure("gh repo create app", 4, "warning\nHTTP 422: name already exists\n")

	assert.Contains(t, err.Error(), `"gh repo create app" exited with status 4`)
	assert.Contains(t, err.Error(), "HTTP 422: name already exists")
	assert.Equal(t, "4", err.Details[DetailExitCode])
	assert.Equal(t, "gh repo create app", err.Details[DetailCommand])
}

func TestIsProcessFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"process failure", ErrProcessFailure("az", 1, ""), true},
		{"malformed output", ErrMalformedOutput("az", errors.New("bad json")), true},
		{"timed out", ErrTimedOut("az", time.Second), false},
		{"plain error", errors.New("plain"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsProcessFailure(tt.err))
		})
	}
}

func TestMissingTools(t *testing.T) {
	err := fmt.Errorf("preflight: %w", ErrMissingTool(
		Tool{Name: "gh", InstallURL: "https://cli.github.com"},
		Tool{Name: "az", InstallURL: "https://aka.ms/az"},
	))

	tools := MissingTools(err)
	require.Len(t, tools, 2)
	assert.Equal(t, "az", tools[0].Name)
	assert.Equal(t, "gh", tools[1].Name)
	assert.Equal(t, "https://cli.github.com", tools[1].InstallURL)
	assert.Contains(t, err.Error(), "gh, az")

	assert.Nil(t, MissingTools(errors.New("other")))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitMissingTool, ExitCode(ErrMissingTool(Tool{Name: "git"})))
	assert.Equal(t, ExitFailure, ExitCode(ErrMissingCredential("client ID")))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("x")))
}

func TestWithDetailAndGetDetail(t *testing.T) {
	err := ErrMissingOutput("databaseHost").WithDetail(DetailStep, "database")
	wrapped := fmt.Errorf("wrapped: %w", err)

	assert.Equal(t, "database", GetDetail(wrapped, DetailStep))
	assert.Equal(t, "databaseHost", GetDetail(wrapped, DetailKey))
	assert.Empty(t, GetDetail(errors.New("x"), DetailStep))
	assert.Equal(t, `deployment output "databaseHost" is missing or empty`, GetErrorMessage(wrapped))
}

func TestIsFatalPreflight(t *testing.T) {
	assert.True(t, IsFatalPreflight(fmt.Errorf("preflight: %w", ErrMissingTool(Tool{Name: "gh"}))))
	assert.False(t, IsFatalPreflight(ErrProcessFailure("git init", 1, "")))
	assert.False(t, IsFatalPreflight(nil))
}
