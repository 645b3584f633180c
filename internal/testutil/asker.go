package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/chiptune-stack/chiptune/internal/prompt"
)

// ScriptedAsker answers prompts from a map keyed by question name.
// Unscripted questions fall back to their default and fail when they have none.
type ScriptedAsker struct {
	mu      sync.Mutex
	answers map[string]string
	errs    map[string]error
	asked   []prompt.Question
}

// NewScriptedAsker creates an asker with the given answers.
func NewScriptedAsker(answers map[string]string) *ScriptedAsker {
	if answers == nil {
		answers = make(map[string]string)
	}
	return &ScriptedAsker{answers: answers, errs: make(map[string]error)}
}

// Fail makes the named question return err.
func (s *ScriptedAsker) Fail(name string, err error) *ScriptedAsker {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[name] = err
	return s
}

// Ask implements prompt.Asker. Answers go through the question's own checks.
func (s *ScriptedAsker) Ask(_ context.Context, q prompt.Question) (string, error) {
	s.mu.Lock()
	s.asked = append(s.asked, q)
	answer, ok := s.answers[q.Name]
	err := s.errs[q.Name]
	s.mu.Unlock()

	if err != nil {
		return "", err
	}
	if !ok {
		if q.Default == "" && q.Kind != prompt.Input {
			return "", fmt.Errorf("unexpected question %q", q.Name)
		}
		answer = q.Default
	}
	if err := q.Check(answer); err != nil {
		return "", err
	}
	return answer, nil
}

// Asked returns the names of the questions asked, in order.
func (s *ScriptedAsker) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.asked))
	for i, q := range s.asked {
		names[i] = q.Name
	}
	return names
}

// Question returns the last question asked with the given name.
func (s *ScriptedAsker) Question(name string) (prompt.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.asked) - 1; i >= 0; i-- {
		if s.asked[i].Name == name {
			return s.asked[i], true
		}
	}
	return prompt.Question{}, false
}
