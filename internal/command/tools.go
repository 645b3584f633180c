package command

import apperrors "github.com/chiptune-stack/chiptune/internal/errors"

// Tool is a required external executable.
type Tool = apperrors.Tool

// LookupTools checks that every tool resolves on PATH without running anything.
// It returns a single MissingTool error naming every absent tool.
func LookupTools(runner Runner, tools ...Tool) error {
	var missing []Tool
	seen := make(map[string]bool, len(tools))
	for _, tool := range tools {
		if seen[tool.Name] {
			continue
		}
		seen[tool.Name] = true
		if _, err := runner.LookPath(tool.Name); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return apperrors.ErrMissingTool(missing...)
	}
	return nil
}
