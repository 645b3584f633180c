package github

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chiptune-stack/chiptune/internal/constants"

	"github.com/spf13/afero"
)

// DetectRemoteURL reads the origin URL from the repository config in dir.
func DetectRemoteURL(fs afero.Fs, dir string) (string, error) {
	configPath := filepath.Join(dir, constants.GitDir, "config")
	content, err := afero.ReadFile(fs, configPath)
	if err != nil {
		return "", fmt.Errorf("not a git repository or no remote 'origin' configured")
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != `[remote "origin"]` {
			continue
		}
		for _, sub := range lines[i+1:] {
			sub = strings.TrimSpace(sub)
			if strings.HasPrefix(sub, "[") {
				break
			}
			if value, ok := strings.CutPrefix(sub, "url ="); ok {
				return strings.TrimSpace(value), nil
			}
		}
	}

	return "", fmt.Errorf("git remote 'origin' is not configured")
}

// IsRepository reports whether dir holds a git repository.
func IsRepository(fs afero.Fs, dir string) bool {
	ok, err := afero.DirExists(fs, filepath.Join(dir, constants.GitDir))
	return err == nil && ok
}
