package bootstrap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAppName(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		max      int
		expected string
	}{
		{name: "hyphens stripped", dir: "/work/my-cool-app", max: 12, expected: "mycoolapp"},
		{name: "capped", dir: "/work/a-very-long-project-name", max: 12, expected: "averylongpro"},
		{name: "short cap", dir: "/work/my-cool-app", max: 6, expected: "mycool"},
		{name: "lowercased", dir: "/work/MyApp", max: 12, expected: "myapp"},
		{name: "other characters dropped", dir: "/work/my_app.v2", max: 12, expected: "myappv2"},
		{name: "trailing slash", dir: "/work/my-app/", max: 12, expected: "myapp"},
		{name: "no cap", dir: "/work/a-very-long-project-name", max: 0, expected: "averylongprojectname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeAppName(tt.dir, tt.max))
		})
	}
}

func TestNormalizeAppName_Properties(t *testing.T) {
	dirs := []string{
		"my-cool-app", "---", "a-b-c-d-e-f-g-h-i-j-k-l-m-n", "remix-chiptune-stack-template",
		"x", "UPPER-case-Mixed", "123-456-789-012-345", "ünïcödé-app",
	}
	for _, max := range []int{6, 12} {
		for _, dir := range dirs {
			got := NormalizeAppName("/work/"+dir, max)
			assert.NotContains(t, got, "-", dir)
			assert.LessOrEqual(t, len(got), max, dir)
		}
	}
}

func TestAppName(t *testing.T) {
	name, err := AppName("/work/my-cool-app", 12, 0)
	require.NoError(t, err)
	assert.Equal(t, "mycoolapp", name)

	name, err = AppName("/work/my-cool-app", 12, 2)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "mycoolapp"))
	assert.Len(t, name, len("mycoolapp")+4)
	assert.Regexp(t, `^mycoolapp[0-9a-f]{4}$`, name)

	_, err = AppName("/work/---", 12, 0)
	assert.Error(t, err)
}
