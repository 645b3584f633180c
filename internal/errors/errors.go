// Package errors provides error types and handling for chiptune.
// Every failure surfaced by a bootstrap step is a *BootstrapError carrying a stable code.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// BootstrapError represents a failure of one bootstrap step.
type BootstrapError struct {
	// Code is a stable error code string for programmatic handling
	Code string
	// Message is a user-friendly error message
	Message string
	// Cause is the underlying error (for error wrapping)
	Cause error
	// Details holds structured context such as the command line or the failing step
	Details map[string]string
}

// Error implements the error interface.
func (e *BootstrapError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *BootstrapError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to match on error codes.
func (e *BootstrapError) Is(target error) bool {
	if t, ok := target.(*BootstrapError); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// WithDetail returns e after recording key=value in its details.
func (e *BootstrapError) WithDetail(key, value string) *BootstrapError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Error codes.
const (
	ErrCodeMissingTool         = "MISSING_TOOL"
	ErrCodeProcessFailure      = "PROCESS_FAILURE"
	ErrCodeMalformedOutput     = "MALFORMED_OUTPUT"
	ErrCodeMissingCredential   = "MISSING_CREDENTIAL"
	ErrCodeNoSubscriptionFound = "NO_SUBSCRIPTION_FOUND"
	ErrCodeTimedOut            = "TIMED_OUT"
	ErrCodeMissingOutput       = "MISSING_OUTPUT"
	ErrCodeInvalidChoice       = "INVALID_CHOICE"
	ErrCodeInvalidDocument     = "INVALID_DOCUMENT"
	ErrCodeFileSystem          = "FILESYSTEM_ERROR"
)

// Detail keys.
const (
	DetailCommand  = "command"
	DetailExitCode = "exit_code"
	DetailStderr   = "stderr"
	DetailStep     = "step"
	DetailTool     = "tool"
	DetailPath     = "path"
	DetailKey      = "key"
)

// Sentinel values usable with errors.Is.
var (
	MissingTool         = &BootstrapError{Code: ErrCodeMissingTool}
	ProcessFailure      = &BootstrapError{Code: ErrCodeProcessFailure}
	MalformedOutput     = &BootstrapError{Code: ErrCodeMalformedOutput}
	MissingCredential   = &BootstrapError{Code: ErrCodeMissingCredential}
	NoSubscriptionFound = &BootstrapError{Code: ErrCodeNoSubscriptionFound}
	TimedOut            = &BootstrapError{Code: ErrCodeTimedOut}
	MissingOutput       = &BootstrapError{Code: ErrCodeMissingOutput}
)

// Tool names a required external executable and where to install it.
type Tool struct {
	Name       string
	InstallURL string
}

// ErrMissingTool creates an error for one or more required executables that are not on PATH.
func ErrMissingTool(tools ...Tool) *BootstrapError {
	names := make([]string, 0, len(tools))
	details := make(map[string]string, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
		details[DetailTool+"."+tool.Name] = tool.InstallURL
	}
	return &BootstrapError{
		Code:    ErrCodeMissingTool,
		Message: fmt.Sprintf("required tool not installed: %s", strings.Join(names, ", ")),
		Details: details,
	}
}

// ErrProcessFailure creates an error for an external command that exited non-zero.
func ErrProcessFailure(commandLine string, exitCode int, stderr string) *BootstrapError {
	msg := fmt.Sprintf("command %q exited with status %d", commandLine, exitCode)
	if trimmed := strings.TrimSpace(stderr); trimmed != "" {
		msg += ": " + lastLine(trimmed)
	}
	return &BootstrapError{
		Code:    ErrCodeProcessFailure,
		Message: msg,
		Details: map[string]string{
			DetailCommand:  commandLine,
			DetailExitCode: fmt.Sprintf("%d", exitCode),
			DetailStderr:   stderr,
		},
	}
}

// ErrMalformedOutput creates an error for command output that could not be decoded.
func ErrMalformedOutput(commandLine string, cause error) *BootstrapError {
	return &BootstrapError{
		Code:    ErrCodeMalformedOutput,
		Message: fmt.Sprintf("unexpected output from %q", commandLine),
		Cause:   cause,
		Details: map[string]string{DetailCommand: commandLine},
	}
}

// ErrTimedOut creates an error for a command that did not finish within its bound.
func ErrTimedOut(commandLine string, after time.Duration) *BootstrapError {
	return &BootstrapError{
		Code:    ErrCodeTimedOut,
		Message: fmt.Sprintf("command %q timed out after %s", commandLine, after),
		Details: map[string]string{DetailCommand: commandLine},
	}
}

// ErrMissingCredential creates an error for a required interactive answer left empty.
func ErrMissingCredential(field string) *BootstrapError {
	return &BootstrapError{
		Code:    ErrCodeMissingCredential,
		Message: fmt.Sprintf("no %s provided", field),
		Details: map[string]string{DetailKey: field},
	}
}

// ErrNoSubscriptionFound creates an error for a login that returned no usable account.
func ErrNoSubscriptionFound() *BootstrapError {
	return &BootstrapError{
		Code:    ErrCodeNoSubscriptionFound,
		Message: "login succeeded but no Azure subscription is available to this account",
	}
}

// ErrMissingOutput creates an error for a deployment output a later step depends on.
func ErrMissingOutput(key string) *BootstrapError {
	return &BootstrapError{
		Code:    ErrCodeMissingOutput,
		Message: fmt.Sprintf("deployment output %q is missing or empty", key),
		Details: map[string]string{DetailKey: key},
	}
}

// ErrInvalidChoice creates an error for an answer outside the offered options.
func ErrInvalidChoice(question, answer string) *BootstrapError {
	return &BootstrapError{
		Code:    ErrCodeInvalidChoice,
		Message: fmt.Sprintf("invalid answer %q to %q", answer, question),
	}
}

// ErrInvalidDocument creates an error for a project file that could not be parsed.
func ErrInvalidDocument(path string, cause error) *BootstrapError {
	return &BootstrapError{
		Code:    ErrCodeInvalidDocument,
		Message: fmt.Sprintf("invalid document %s", path),
		Cause:   cause,
		Details: map[string]string{DetailPath: path},
	}
}

// ErrFileSystem creates an error for a failed read, write or removal of a project file.
func ErrFileSystem(op, path string, cause error) *BootstrapError {
	return &BootstrapError{
		Code:    ErrCodeFileSystem,
		Message: fmt.Sprintf("failed to %s %s", op, path),
		Cause:   cause,
		Details: map[string]string{DetailPath: path},
	}
}

// GetErrorCode extracts the error code from an error.
// Returns empty string if the error is not a BootstrapError.
func GetErrorCode(err error) string {
	var be *BootstrapError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// GetErrorMessage extracts a user-friendly message from an error.
func GetErrorMessage(err error) string {
	var be *BootstrapError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}

// GetDetail returns one detail value of the first BootstrapError in the chain.
func GetDetail(err error, key string) string {
	var be *BootstrapError
	if errors.As(err, &be) && be.Details != nil {
		return be.Details[key]
	}
	return ""
}

// MissingTools returns the absent tools recorded on a MissingTool error, sorted by name.
func MissingTools(err error) []Tool {
	var be *BootstrapError
	if !errors.As(err, &be) || be.Code != ErrCodeMissingTool {
		return nil
	}
	var tools []Tool
	for key, url := range be.Details {
		if name, ok := strings.CutPrefix(key, DetailTool+"."); ok {
			tools = append(tools, Tool{Name: name, InstallURL: url})
		}
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// IsProcessFailure reports whether err is an external-process failure.
// Malformed output propagates as a process failure while keeping its own code.
func IsProcessFailure(err error) bool {
	code := GetErrorCode(err)
	return code == ErrCodeProcessFailure || code == ErrCodeMalformedOutput
}

// IsFatalPreflight reports whether err must stop the run before anything is mutated.
func IsFatalPreflight(err error) bool {
	return GetErrorCode(err) == ErrCodeMissingTool
}

// Exit codes returned by the CLI.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitMissingTool = 3
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if IsFatalPreflight(err) {
		return ExitMissingTool
	}
	return ExitFailure
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
