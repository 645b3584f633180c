package testutil

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"sync"

	"github.com/chiptune-stack/chiptune/internal/command"
)

// Response is a scripted outcome for a command.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err short-circuits the call, e.g. to simulate a timeout.
	Err error
}

type scripted struct {
	prefix string
	resp   Response
}

// FakeRunner is a command.Runner returning scripted responses keyed by command-line prefix.
// The longest matching prefix wins, the latest registration among equals; unmatched commands
// succeed with empty output.
type FakeRunner struct {
	mu        sync.Mutex
	responses []scripted
	missing   map[string]bool
	calls     []command.Command
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{missing: make(map[string]bool)}
}

// On scripts the response for commands whose line starts with prefix.
func (f *FakeRunner) On(prefix string, resp Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, scripted{prefix: prefix, resp: resp})
	return f
}

// OnJSON scripts a successful response whose stdout is v encoded as JSON.
func (f *FakeRunner) OnJSON(prefix string, v any) *FakeRunner {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return f.On(prefix, Response{Stdout: string(data)})
}

// WithMissing makes LookPath fail for the given tools.
func (f *FakeRunner) WithMissing(names ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range names {
		f.missing[name] = true
	}
	return f
}

// LookPath implements command.Runner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + name, nil
}

// Run implements command.Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd command.Command) (*command.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	resp, _ := f.match(Line(cmd))
	f.mu.Unlock()

	if resp.Err != nil {
		return nil, resp.Err
	}
	return command.Complete(cmd, resp.ExitCode, resp.Stdout, resp.Stderr)
}

func (f *FakeRunner) match(line string) (Response, bool) {
	best := -1
	for i, s := range f.responses {
		if strings.HasPrefix(line, s.prefix) && (best < 0 || len(s.prefix) >= len(f.responses[best].prefix)) {
			best = i
		}
	}
	if best < 0 {
		return Response{}, false
	}
	return f.responses[best].resp, true
}

// Calls returns every command run so far, in order.
func (f *FakeRunner) Calls() []command.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]command.Command(nil), f.calls...)
}

// Lines returns the unquoted command line of every call, in order.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = Line(c)
	}
	return lines
}

// Called reports whether any call's line starts with prefix.
func (f *FakeRunner) Called(prefix string) bool {
	return f.Index(prefix) >= 0
}

// Index returns the position of the first call whose line starts with prefix, or -1.
func (f *FakeRunner) Index(prefix string) int {
	for i, line := range f.Lines() {
		if strings.HasPrefix(line, prefix) {
			return i
		}
	}
	return -1
}

// CalledTool reports whether any command ran the named executable.
func (f *FakeRunner) CalledTool(name string) bool {
	for _, c := range f.Calls() {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Line joins a command's name and arguments with single spaces, without quoting or masking.
func Line(cmd command.Command) string {
	return strings.Join(append([]string{cmd.Name}, cmd.Args...), " ")
}
