// Package command runs external CLIs (az, azd, git, gh, npm) on behalf of bootstrap steps.
// It fixes one contract for every invocation: non-zero exit is a ProcessFailure,
// an expired bound is TimedOut, and JSON is decoded only when the caller asks for it.
package command

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
)

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory (optional).
	Dir string
	// Env is overlaid on the current process environment (optional).
	Env map[string]string
	// Interactive inherits stdin and streams output to the terminal in real time.
	// When ParseJSON is also set, stdout is captured for decoding and only stderr is streamed.
	Interactive bool
	// ParseJSON attempts to decode stdout. Plain-text output is not an error.
	ParseJSON bool
	// Timeout bounds the call when positive.
	Timeout time.Duration
	// Secrets are argument values masked whenever the command line is rendered.
	Secrets []string
}

// New creates a Command for name and args.
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// String renders a shell-quoted command line with secrets masked.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quote(c.Name))
	for _, arg := range c.Args {
		parts = append(parts, quote(c.mask(arg)))
	}
	return strings.Join(parts, " ")
}

func (c Command) mask(arg string) string {
	for _, secret := range c.Secrets {
		if secret != "" && strings.Contains(arg, secret) {
			arg = strings.ReplaceAll(arg, secret, "***")
		}
	}
	return arg
}

// quote returns s unchanged when it is a plain shell word, single-quoted otherwise.
func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-_./:=@,+%", r):
		return false
	}
	return true
}

// Result holds the outcome of one invocation.
type Result struct {
	CommandLine string
	ExitCode    int
	Stdout      string
	Stderr      string
	// JSON is the decoded stdout when the command requested ParseJSON and stdout was valid JSON.
	JSON     any
	Parsed   bool
	Duration time.Duration
}

// Decode unmarshals stdout into v, failing with MalformedOutput when stdout is not the expected JSON.
func (r *Result) Decode(v any) error {
	if err := json.Unmarshal([]byte(strings.TrimSpace(r.Stdout)), v); err != nil {
		return apperrors.ErrMalformedOutput(r.CommandLine, err)
	}
	return nil
}

// Text returns stdout without surrounding whitespace.
func (r *Result) Text() string {
	return strings.TrimSpace(r.Stdout)
}

// Complete interprets a finished process: non-zero exit fails with ProcessFailure,
// and stdout is decoded when cmd requested JSON. It is shared by Exec and test fakes
// so both apply the same contract.
func Complete(cmd Command, exitCode int, stdout, stderr string) (*Result, error) {
	res := &Result{
		CommandLine: cmd.String(),
		ExitCode:    exitCode,
		Stdout:      stdout,
		Stderr:      stderr,
	}

	if exitCode != 0 {
		return res, apperrors.ErrProcessFailure(res.CommandLine, exitCode, stderr)
	}

	if cmd.ParseJSON {
		var payload any
		if err := json.Unmarshal([]byte(strings.TrimSpace(stdout)), &payload); err == nil {
			res.JSON = payload
			res.Parsed = true
		}
	}

	return res, nil
}
