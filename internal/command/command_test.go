package command

import (
	"testing"

	apperrors "github.com/chiptune-stack/chiptune/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_String(t *testing.T) {
	tests := []struct {
		name     string
		cmd      Command
		expected string
	}{
		{
			name:     "plain words",
			cmd:      New("az", "login", "--output", "json"),
			expected: "az login --output json",
		},
		{
			name:     "quotes spaces and quotes",
			cmd:      New("git", "commit", "-m", "Initial commit"),
			expected: "git commit -m 'Initial commit'",
		},
		{
			name:     "empty argument",
			cmd:      New("sh", "-c", ""),
			expected: "sh -c ''",
		},
		{
			name:     "embedded single quote",
			cmd:      New("echo", "it's"),
			expected: `echo 'it'"'"'s'`,
		},
		{
			name: "masks secrets",
			cmd: Command{
				Name:    "gh",
				Args:    []string{"secret", "set", "KEY", "--body", "hunter2"},
				Secrets: []string{"hunter2"},
			},
			expected: "gh secret set KEY --body ***",
		},
		{
			name: "masks secrets inside arguments",
			cmd: Command{
				Name:    "az",
				Args:    []string{"--parameters", "databasePassword=s3cr3t"},
				Secrets: []string{"s3cr3t"},
			},
			expected: "az --parameters databasePassword=***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cmd.String())
		})
	}
}

func TestComplete(t *testing.T) {
	t.Run("non-zero exit is a process failure", func(t *testing.T) {
		res, err := Complete(New("az", "login"), 2, "", "ERROR: interactive auth failed\n")

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeProcessFailure, apperrors.GetErrorCode(err))
		assert.Equal(t, "2", apperrors.GetDetail(err, apperrors.DetailExitCode))
		assert.Contains(t, apperrors.GetDetail(err, apperrors.DetailStderr), "interactive auth failed")
		require.NotNil(t, res)
		assert.Equal(t, 2, res.ExitCode)
	})

	t.Run("parses JSON when requested", func(t *testing.T) {
		cmd := New("az", "login")
		cmd.ParseJSON = true

		res, err := Complete(cmd, 0, `[{"id":"sub-1","tenantId":"tenant-1"}]`+"\n", "")

		require.NoError(t, err)
		assert.True(t, res.Parsed)
		list, ok := res.JSON.([]any)
		require.True(t, ok)
		assert.Len(t, list, 1)
	})

	t.Run("plain text falls back to raw output", func(t *testing.T) {
		cmd := New("az", "keyvault", "secret", "show")
		cmd.ParseJSON = true

		res, err := Complete(cmd, 0, "p@ssw0rd\n", "")

		require.NoError(t, err)
		assert.False(t, res.Parsed)
		assert.Nil(t, res.JSON)
		assert.Equal(t, "p@ssw0rd", res.Text())
	})

	t.Run("does not parse unless requested", func(t *testing.T) {
		res, err := Complete(New("gh", "api", "user"), 0, `{"login":"octocat"}`, "")

		require.NoError(t, err)
		assert.False(t, res.Parsed)
	})
}

func TestResult_Decode(t *testing.T) {
	res := &Result{CommandLine: "gh api user", Stdout: `{"login":"octocat"}`}
	var user struct {
		Login string `json:"login"`
	}
	require.NoError(t, res.Decode(&user))
	assert.Equal(t, "octocat", user.Login)

	bad := &Result{CommandLine: "gh api user", Stdout: "not json"}
	err := bad.Decode(&user)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMalformedOutput, apperrors.GetErrorCode(err))
	assert.True(t, apperrors.IsProcessFailure(err))
}
