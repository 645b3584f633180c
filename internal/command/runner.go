package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
	"github.com/chiptune-stack/chiptune/internal/logger"
)

// waitDelay bounds how long Wait blocks on inherited pipes after the process is killed.
const waitDelay = 5 * time.Second

// Runner is the interface for running external commands.
// Implementations must be safe for stubbing in tests.
type Runner interface {
	// Run executes cmd and returns its result.
	// A non-zero exit returns both the Result and a ProcessFailure error.
	Run(ctx context.Context, cmd Command) (*Result, error)
	// LookPath resolves an executable name without running it.
	LookPath(name string) (string, error)
}

// Exec is the production implementation of Runner using os/exec.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	logger *slog.Logger
}

// NewExec creates an Exec bound to the process's standard streams.
func NewExec(logger *slog.Logger) *Exec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exec{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logger,
	}
}

// LookPath resolves name on PATH.
func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes the command, streaming or capturing its output per cmd.Interactive.
func (e *Exec) Run(ctx context.Context, cmd Command) (*Result, error) {
	runCtx := ctx
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	line := cmd.String()
	c := exec.CommandContext(runCtx, cmd.Name, cmd.Args...)
	c.WaitDelay = waitDelay
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = c.Environ()
		for k, v := range cmd.Env {
			c.Env = append(c.Env, k+"="+v)
		}
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if cmd.Interactive {
		c.Stdin = e.Stdin
		c.Stderr = io.MultiWriter(e.Stderr, &stderr)
		if !cmd.ParseJSON {
			c.Stdout = io.MultiWriter(e.Stdout, &stdout)
		}
	}

	logArgs := []any{"command", line, "dir", cmd.Dir, "interactive", cmd.Interactive}
	logArgs = append(logArgs, logger.DeadlineAttrs(runCtx)...)
	e.logger.Debug("running command", logArgs...)

	start := time.Now()
	err := c.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			e.logger.Debug("command timed out", "command", line, "duration", elapsed)
			return nil, apperrors.ErrTimedOut(line, cmd.Timeout)
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			if errors.Is(err, exec.ErrNotFound) {
				return nil, apperrors.ErrMissingTool(apperrors.Tool{Name: cmd.Name})
			}
			return nil, err
		}
	}

	exitCode := c.ProcessState.ExitCode()
	e.logger.Debug("command finished", "command", line, "exit_code", exitCode, "duration", elapsed)

	res, completeErr := Complete(cmd, exitCode, stdout.String(), stderr.String())
	res.Duration = elapsed
	return res, completeErr
}
