package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.NotNil(t, v, "Version should not be nil")
	assert.NotEmpty(t, *v, "Version should not be empty")

	v2 := GetVersion()
	assert.Equal(t, v, v2, "GetVersion should return the same pointer")
}

func TestConfigDirPath(t *testing.T) {
	tests := []struct {
		name     string
		homeDir  string
		expected string
	}{
		{
			name:     "standard home directory",
			homeDir:  "/home/user",
			expected: "/home/user/.chiptune",
		},
		{
			name:     "root home directory",
			homeDir:  "/root",
			expected: "/root/.chiptune",
		},
		{
			name:     "empty home directory",
			homeDir:  "",
			expected: "/.chiptune",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConfigDirPath(tt.homeDir))
			assert.Equal(t, tt.expected+"/config.yaml", ConfigFilePath(tt.homeDir))
		})
	}
}

func TestPasswordAlphabetHasNoDuplicates(t *testing.T) {
	seen := make(map[rune]bool)
	for _, r := range DefaultPasswordAlphabet {
		assert.False(t, seen[r], "duplicate rune %q", r)
		seen[r] = true
	}
}
