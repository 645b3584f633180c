package bootstrap

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chiptune-stack/chiptune/internal/secrets"
)

// NormalizeAppName derives an app name from a directory: hyphens are stripped, letters
// lowercased, anything outside [a-z0-9] dropped and the result capped at maxLength.
func NormalizeAppName(dir string, maxLength int) string {
	base := filepath.Base(filepath.Clean(dir))

	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	name := b.String()
	if maxLength > 0 && len(name) > maxLength {
		name = name[:maxLength]
	}
	return name
}

// AppName normalizes dir and appends suffixBytes random bytes as hex.
func AppName(dir string, maxLength, suffixBytes int) (string, error) {
	name := NormalizeAppName(dir, maxLength)
	if name == "" {
		return "", fmt.Errorf("cannot derive an app name from directory %q", filepath.Base(dir))
	}
	if suffixBytes > 0 {
		suffix, err := secrets.RandomHex(suffixBytes)
		if err != nil {
			return "", err
		}
		name += suffix
	}
	return name, nil
}
