package template

import (
	"testing"

	apperrors "github.com/chiptune-stack/chiptune/internal/errors"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/app/.env.example", []byte("SESSION_SECRET=\n"), 0o600))

	err := Rewrite(fs, "/app/.env.example", "/app/.env", []Rule{Line("SESSION_SECRET", "abc")})
	require.NoError(t, err)

	out, err := afero.ReadFile(fs, "/app/.env")
	require.NoError(t, err)
	assert.Equal(t, "SESSION_SECRET=\"abc\"\n", string(out))

	src, err := afero.ReadFile(fs, "/app/.env.example")
	require.NoError(t, err)
	assert.Equal(t, "SESSION_SECRET=\n", string(src), "source must be left untouched")
}

func TestRewriteInPlace_KeepsMode(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/app/README.md", []byte("chiptune-stack-template"), 0o600))

	require.NoError(t, RewriteInPlace(fs, "/app/README.md", []Rule{Literal("chiptune-stack-template", "app")}))

	info, err := fs.Stat("/app/README.md")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())
}

func TestRewrite_MissingSource(t *testing.T) {
	fs := afero.NewMemMapFs()

	err := Rewrite(fs, "/app/missing", "/app/out", nil)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeFileSystem, apperrors.GetErrorCode(err))
	exists, _ := afero.Exists(fs, "/app/out")
	assert.False(t, exists)
}
