package github

import (
	"path/filepath"
	"testing"

	"github.com/chiptune-stack/chiptune/internal/testutil"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRemoteURL(t *testing.T) {
	fs := afero.NewMemMapFs()
	testutil.WriteFile(t, fs, filepath.Join("/repo", ".git", "config"),
		"[remote \"upstream\"]\n\turl = https://example.com/up.git\n[remote \"origin\"]\n\turl = git@github.com:octo/app.git\n")

	url, err := DetectRemoteURL(fs, "/repo")

	require.NoError(t, err)
	assert.Equal(t, "git@github.com:octo/app.git", url)
	assert.True(t, IsRepository(fs, "/repo"))
}

func TestDetectRemoteURL_NoOrigin(t *testing.T) {
	fs := afero.NewMemMapFs()
	testutil.WriteFile(t, fs, filepath.Join("/repo", ".git", "config"), "[core]\n\tbare = false\n")

	_, err := DetectRemoteURL(fs, "/repo")
	assert.Error(t, err)

	_, err = DetectRemoteURL(fs, "/elsewhere")
	assert.Error(t, err)
	assert.False(t, IsRepository(fs, "/elsewhere"))
}
