package template

import (
	"os"

	"github.com/chiptune-stack/chiptune/internal/constants"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"

	"github.com/spf13/afero"
)

// Rewrite reads src, applies rules and writes the full result to dst.
// Applying to the same path rewrites the file in place.
func Rewrite(fs afero.Fs, src, dst string, rules []Rule) error {
	data, err := afero.ReadFile(fs, src)
	if err != nil {
		return apperrors.ErrFileSystem("read", src, err)
	}

	out, err := Apply(string(data), rules)
	if err != nil {
		return apperrors.ErrInvalidDocument(src, err)
	}

	return WriteFile(fs, dst, []byte(out))
}

// RewriteInPlace applies rules to path and writes the result back.
func RewriteInPlace(fs afero.Fs, path string, rules []Rule) error {
	return Rewrite(fs, path, path, rules)
}

// WriteFile writes data to path, keeping the existing file mode when the file exists.
func WriteFile(fs afero.Fs, path string, data []byte) error {
	perm := os.FileMode(constants.ProjectFilePermissions)
	if info, err := fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := afero.WriteFile(fs, path, data, perm); err != nil {
		return apperrors.ErrFileSystem("write", path, err)
	}
	return nil
}
