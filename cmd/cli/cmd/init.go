package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chiptune-stack/chiptune/internal/bootstrap"
	"github.com/chiptune-stack/chiptune/internal/client/output"
	"github.com/chiptune-stack/chiptune/internal/command"
	"github.com/chiptune-stack/chiptune/internal/constants"
	"github.com/chiptune-stack/chiptune/internal/database"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
	"github.com/chiptune-stack/chiptune/internal/identity"
	"github.com/chiptune-stack/chiptune/internal/prompt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [project-dir] [-- template options...]",
	Short: "Provision Azure resources and configure a freshly cloned project",
	Long: `Provision the Azure infrastructure of a freshly cloned chiptune stack project,
optionally configure Google sign-in, choose a database, rewrite the project files,
publish a private GitHub repository and run the project setup script.

Arguments after "--" are recorded and passed through untouched.`,
	Example: fmt.Sprintf(`  - %[1]s init
  - %[1]s init ./my-app --location northeurope
  - %[1]s init ./my-app --deploy-mode group --skip-repository
  - %[1]s init ./my-app -- --template chiptune-stack`, constants.ProjectName),
	Args: func(cmd *cobra.Command, args []string) error {
		positional, _ := splitArgs(cmd, args)
		if len(positional) > 1 {
			return fmt.Errorf("accepts at most one project directory, received %d", len(positional))
		}
		return nil
	},
	RunE: runInit,
}

func init() {
	flags := initCmd.Flags()
	flags.String("location", constants.DefaultLocation, "Azure region for every resource")
	flags.String("deploy-mode", string(constants.DeployModeAzd), "Provisioning flow (azd or group)")
	flags.String("auth-mode", string(constants.AuthApplyImmediate),
		"How sign-in credentials are applied (immediate or deferred)")
	flags.String("pipeline-mode", string(constants.PipelineSecrets), "How CI is wired (secrets or azd)")
	flags.String("identity-failure", string(constants.FailureSkip),
		"What to do when sign-in setup fails (skip or abort)")
	flags.Int("name-max-length", constants.DefaultAppNameMaxLength, "Maximum length of the application name")
	flags.Int("name-suffix-bytes", 0, "Random bytes appended to the application name as hex")
	flags.Bool("skip-repository", false, "Do not create a GitHub repository")
	flags.Bool("skip-setup", false, "Do not run the project setup script")
	flags.Duration("auth-timeout", constants.DefaultAuthTimeout, "Timeout for interactive logins")
	flags.Duration("deploy-timeout", constants.DefaultDeployTimeout, "Timeout for provisioning")
	flags.Duration("network-timeout", constants.DefaultNetworkTimeout, "Timeout for other CLI calls")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return err
	}
	positional, passThrough := splitArgs(cmd, args)
	root := "."
	if len(positional) > 0 {
		root = positional[0]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.Default()
	orchestrator := bootstrap.New(cfg, bootstrap.Dependencies{
		Fs:     afero.NewOsFs(),
		Runner: command.NewExec(log),
		Asker:  prompt.NewTerminal(),
		Output: output.NewConsole(),
		Logger: log,
	})
	return NewInitService(orchestrator, output.NewConsole()).Init(ctx, root, passThrough)
}

// Bootstrapper runs one bootstrap.
type Bootstrapper interface {
	Run(ctx context.Context, root string, passThrough []string) (*bootstrap.Context, error)
}

// InitService runs a bootstrap and reports its outcome.
type InitService struct {
	bootstrapper Bootstrapper
	output       output.Outputter
}

// NewInitService creates a new InitService with the provided dependencies
func NewInitService(bootstrapper Bootstrapper, outputter output.Outputter) *InitService {
	return &InitService{bootstrapper: bootstrapper, output: outputter}
}

// Init bootstraps root. Failures are printed with the failing step and the files already modified,
// and returned marked as reported.
func (s *InitService) Init(ctx context.Context, root string, passThrough []string) error {
	bc, err := s.bootstrapper.Run(ctx, root, passThrough)
	if err != nil {
		s.reportFailure(bc, err)
		return &reportedError{err: err}
	}
	s.reportSuccess(bc)
	return nil
}

func (s *InitService) reportSuccess(bc *bootstrap.Context) {
	s.output.Blank()
	s.output.Successf("Project %s is ready", bc.AppName)
	s.output.KeyValue("Application", bc.AppName)
	s.output.KeyValue("Subscription", bc.SubscriptionID)
	if bc.ResourceGroup != "" {
		s.output.KeyValue("Resource group", bc.ResourceGroup)
	}
	if url := bc.Outputs.Lookup(constants.OutputWebURL); url != "" {
		s.output.KeyValue("Web URL", url)
	}
	if bc.Database != nil {
		s.output.KeyValue("Database", string(bc.Database.Kind))
	}
	if bc.Identity != nil {
		s.output.KeyValue("Google sign-in", bc.Identity.State.String())
		if bc.Identity.State == identity.Configured && bc.Identity.TestURL != "" {
			s.output.KeyValue("Sign-in test URL", bc.Identity.TestURL)
		}
	}
	if bc.Repository != nil {
		s.output.KeyValue("Repository", bc.Repository.URL)
	}
	if len(bc.TouchedFiles) > 0 {
		s.output.Infof("Files written:")
		s.output.List(bc.TouchedFiles)
	}
	if bc.Database != nil && bc.Database.Kind == database.Devcontainer {
		s.output.Box(fmt.Sprintf("Open the project in its devcontainer and run \"npm run %s\"", constants.SetupScript))
	}
}

func (s *InitService) reportFailure(bc *bootstrap.Context, err error) {
	s.output.Blank()
	headline := err.Error()
	if step := bootstrap.FailedStep(err); step != "" && apperrors.GetErrorCode(err) != "" {
		headline = step + ": " + apperrors.GetErrorMessage(err)
	}
	s.output.Errorf("✗ %s", headline)

	for _, tool := range apperrors.MissingTools(err) {
		s.output.KeyValue(tool.Name, tool.InstallURL)
	}
	if stderr := apperrors.GetDetail(err, apperrors.DetailStderr); stderr != "" {
		s.output.KeyValue("stderr", stderr)
	}

	if bc == nil {
		return
	}
	if len(bc.TouchedFiles) > 0 {
		s.output.Warningf("Files already modified:")
		s.output.List(bc.TouchedFiles)
	}
	if len(bc.RemovedFiles) > 0 {
		s.output.Warningf("Files already removed:")
		s.output.List(bc.RemovedFiles)
	}
}
