package cmd

import (
	"log/slog"

	"github.com/chiptune-stack/chiptune/internal/bootstrap"
	"github.com/chiptune-stack/chiptune/internal/client/output"
	"github.com/chiptune-stack/chiptune/internal/command"
	"github.com/chiptune-stack/chiptune/internal/config"
	"github.com/chiptune-stack/chiptune/internal/constants"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the tools a bootstrap needs are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := getConfigFromContext(cmd)
		if err != nil {
			return err
		}
		return NewCheckService(command.NewExec(slog.Default()), output.NewConsole()).Check(cfg)
	},
}

func init() {
	flags := checkCmd.Flags()
	flags.String("deploy-mode", string(constants.DeployModeAzd), "Provisioning flow (azd or group)")
	flags.String("pipeline-mode", string(constants.PipelineSecrets), "How CI is wired (secrets or azd)")
	flags.Bool("skip-repository", false, "Do not require the GitHub tools")
	flags.Bool("skip-setup", false, "Do not require npm")
	rootCmd.AddCommand(checkCmd)
}

// CheckService looks up the required tools and prints one line per tool.
type CheckService struct {
	runner command.Runner
	output output.Outputter
}

// NewCheckService creates a new CheckService with the provided dependencies
func NewCheckService(runner command.Runner, outputter output.Outputter) *CheckService {
	return &CheckService{runner: runner, output: outputter}
}

// Check returns a MissingTool error naming every absent tool.
func (s *CheckService) Check(cfg *config.Config) error {
	tools := bootstrap.RequiredTools(cfg)
	for _, tool := range tools {
		path, err := s.runner.LookPath(tool.Name)
		if err != nil {
			s.output.Errorf("%s not found, install it from %s", tool.Name, tool.InstallURL)
			continue
		}
		s.output.Successf("%s found at %s", tool.Name, path)
	}

	if err := command.LookupTools(s.runner, tools...); err != nil {
		return &reportedError{err: err}
	}
	s.output.Successf("All %d required tools are installed", len(tools))
	return nil
}
