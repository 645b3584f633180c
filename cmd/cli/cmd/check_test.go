package cmd

import (
	"testing"

	"github.com/chiptune-stack/chiptune/internal/config"
	"github.com/chiptune-stack/chiptune/internal/constants"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
	"github.com/chiptune-stack/chiptune/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckService_AllPresent(t *testing.T) {
	out := testutil.NewOutput()
	cfg := config.Default()

	err := NewCheckService(testutil.NewFakeRunner(), out).Check(cfg)

	require.NoError(t, err)
	assert.Contains(t, out.Lines(), "success: az found at /usr/bin/az")
	assert.Contains(t, out.Lines(), "success: All 5 required tools are installed")
}

func TestCheckService_Missing(t *testing.T) {
	out := testutil.NewOutput()
	cfg := config.Default()
	runner := testutil.NewFakeRunner().WithMissing(constants.ToolNpm)

	err := NewCheckService(runner, out).Check(cfg)

	assert.Equal(t, apperrors.ExitMissingTool, apperrors.ExitCode(err))
	assert.Contains(t, out.Lines(), "error: npm not found, install it from "+constants.NpmInstallURL)
	assert.Empty(t, runner.Calls())
}

func TestCheckService_SkipsOptionalTools(t *testing.T) {
	out := testutil.NewOutput()
	cfg := config.Default()
	cfg.SkipRepository = true
	cfg.SkipSetup = true
	runner := testutil.NewFakeRunner().WithMissing(constants.ToolGit, constants.ToolGh, constants.ToolNpm)

	err := NewCheckService(runner, out).Check(cfg)

	require.NoError(t, err)
	assert.Contains(t, out.Lines(), "success: All 2 required tools are installed")
}
