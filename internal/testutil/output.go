package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// Output is an output.Outputter that records every message as a plain line.
type Output struct {
	mu    sync.Mutex
	lines []string
}

// NewOutput creates an empty recorder.
func NewOutput() *Output {
	return &Output{}
}

func (o *Output) add(format string, a ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, fmt.Sprintf(format, a...))
}

func (o *Output) Infof(format string, a ...any)    { o.add("info: "+format, a...) }
func (o *Output) Errorf(format string, a ...any)   { o.add("error: "+format, a...) }
func (o *Output) Successf(format string, a ...any) { o.add("success: "+format, a...) }
func (o *Output) Warningf(format string, a ...any) { o.add("warning: "+format, a...) }
func (o *Output) Step(step, total int, message string) {
	o.add("step %d/%d: %s", step, total, message)
}
func (o *Output) StepSuccess(step, total int, message string) {
	o.add("step %d/%d ok: %s", step, total, message)
}
func (o *Output) StepError(step, total int, message string) {
	o.add("step %d/%d failed: %s", step, total, message)
}
func (o *Output) KeyValue(key, value string) { o.add("%s: %s", key, value) }
func (o *Output) List(items []string)        { o.add("list: %s", strings.Join(items, ", ")) }
func (o *Output) Box(text string)            { o.add("box: %s", text) }
func (o *Output) Header(text string)         { o.add("header: %s", text) }
func (o *Output) Blank()                     {}

// Lines returns the recorded lines.
func (o *Output) Lines() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.lines...)
}

// String joins the recorded lines with newlines.
func (o *Output) String() string {
	return strings.Join(o.Lines(), "\n")
}
