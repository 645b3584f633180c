// Package output prints the bootstrap progress and its summary to the terminal.
// Progress and errors go to Stderr; the summary goes to Stdout.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chiptune-stack/chiptune/internal/constants"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
	bold   = color.New(color.Bold)

	// Stdout is the output writer for normal output (can be overridden for testing).
	Stdout io.Writer = os.Stdout
	// Stderr is the output writer for progress and error output (can be overridden for testing).
	Stderr io.Writer = os.Stderr
)

func init() {
	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// Successf prints a ✓ line, e.g. "✓ Project mycoolapp is ready".
func Successf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, green.Sprint("✓")+" "+format+"\n", a...)
}

// Infof prints a → line.
func Infof(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, cyan.Sprint("→")+" "+format+"\n", a...)
}

// Warningf prints a ⚠ line, e.g. "⚠ Skipping sign-in setup".
func Warningf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, yellow.Sprint("⚠")+" "+format+"\n", a...)
}

// Errorf prints a ✗ line, e.g. `✗ provision: command "az login" exited with status 1`.
func Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, red.Sprint("✗")+" "+format+"\n", a...)
}

// Step announces step of total, e.g. "[2/8] Provisioning Azure resources".
func Step(step, total int, message string) {
	stepLine(step, total, "", message)
}

// StepSuccess marks a step as done.
func StepSuccess(step, total int, message string) {
	stepLine(step, total, green.Sprint("✓")+" ", message)
}

// StepError marks the step the run stopped at.
func StepError(step, total int, message string) {
	stepLine(step, total, red.Sprint("✗")+" ", message)
}

func stepLine(step, total int, mark, message string) {
	_, _ = fmt.Fprintf(Stderr, "%s%s%s\n", gray.Sprintf("[%d/%d] ", step, total), mark, message)
}

// Header prints a bold title over a separator rule.
func Header(text string) {
	_, _ = fmt.Fprintln(Stderr)
	_, _ = fmt.Fprintln(Stderr, bold.Sprint(text))
	_, _ = fmt.Fprintln(Stderr, gray.Sprint(strings.Repeat("━", constants.HeaderSeparatorLength)))
}

// KeyValue prints an indented summary row, e.g. "  Resource group: rg-mycoolapp".
func KeyValue(key, value string) {
	_, _ = fmt.Fprintf(Stdout, "  %s: %s\n", gray.Sprint(key), value)
}

// Blank separates summary sections.
func Blank() {
	_, _ = fmt.Fprintln(Stdout)
}

// Bold returns text styled bold.
func Bold(text string) string {
	return bold.Sprint(text)
}

// Box frames text in a rounded border, one row per line.
func Box(text string) {
	lines := strings.Split(text, "\n")
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	_, _ = fmt.Fprintln(Stderr, gray.Sprint("╭─"+strings.Repeat("─", maxLen+constants.BoxBorderPadding)+"─╮"))
	for _, line := range lines {
		padding := strings.Repeat(" ", maxLen-len(line))
		_, _ = fmt.Fprintf(Stderr, "%s  %s%s  %s\n", gray.Sprint("│"), line, padding, gray.Sprint("│"))
	}
	_, _ = fmt.Fprintln(Stderr, gray.Sprint("╰─"+strings.Repeat("─", maxLen+constants.BoxBorderPadding)+"─╯"))
}

// List prints one bullet per item.
func List(items []string) {
	for _, item := range items {
		_, _ = fmt.Fprintf(Stdout, "  %s %s\n", cyan.Sprint("•"), item)
	}
}

// Duration renders d as "42s", "3m 5s" or "1h 2m".
func Duration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
