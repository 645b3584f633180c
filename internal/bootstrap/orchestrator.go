// Package bootstrap sequences the steps that turn a cloned template into a working project.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/chiptune-stack/chiptune/internal/azure"
	"github.com/chiptune-stack/chiptune/internal/client/output"
	"github.com/chiptune-stack/chiptune/internal/command"
	"github.com/chiptune-stack/chiptune/internal/config"
	"github.com/chiptune-stack/chiptune/internal/constants"
	"github.com/chiptune-stack/chiptune/internal/database"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
	"github.com/chiptune-stack/chiptune/internal/github"
	"github.com/chiptune-stack/chiptune/internal/identity"
	"github.com/chiptune-stack/chiptune/internal/project"
	"github.com/chiptune-stack/chiptune/internal/prompt"
	"github.com/chiptune-stack/chiptune/internal/provision"
	"github.com/chiptune-stack/chiptune/internal/secrets"

	"github.com/spf13/afero"
)

// Step names.
const (
	StepPreflight  = "preflight"
	StepProvision  = "provision"
	StepIdentity   = "identity"
	StepDatabase   = "database"
	StepFiles      = "files"
	StepCleanup    = "cleanup"
	StepRepository = "repository"
	StepSetup      = "setup"
)

// Dependencies are the collaborators the orchestrator drives.
type Dependencies struct {
	Fs     afero.Fs
	Runner command.Runner
	Asker  prompt.Asker
	Output output.Outputter
	Logger *slog.Logger
}

// Orchestrator runs the bootstrap steps strictly in order.
type Orchestrator struct {
	cfg    *config.Config
	fs     afero.Fs
	runner command.Runner
	asker  prompt.Asker
	out    output.Outputter
	logger *slog.Logger
	azure  *azure.Client
}

// New creates an Orchestrator.
func New(cfg *config.Config, deps Dependencies) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		fs:     deps.Fs,
		runner: deps.Runner,
		asker:  deps.Asker,
		out:    deps.Output,
		logger: deps.Logger,
		azure:  azure.NewClient(deps.Runner, cfg.Timeouts(), deps.Logger),
	}
}

type step struct {
	name  string
	title string
	run   func(ctx context.Context, bc *Context) error
}

// Run bootstraps the project in root. On failure the returned Context records what was
// already written; nothing is rolled back.
func (o *Orchestrator) Run(ctx context.Context, root string, passThrough []string) (*Context, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root directory: %w", err)
	}

	name, err := AppName(root, o.cfg.NameMaxLength, o.cfg.NameSuffixBytes)
	if err != nil {
		return nil, err
	}

	bc := &Context{
		AppName:     name,
		RootDir:     root,
		Location:    o.cfg.Location,
		PassThrough: passThrough,
	}
	o.logger.Info("bootstrapping project", "app", bc.AppName, "root", bc.RootDir)
	if len(passThrough) > 0 {
		o.logger.Debug("pass-through options", "args", passThrough)
	}

	steps := []step{
		{StepPreflight, "Checking required tools", o.preflight},
		{StepProvision, "Provisioning Azure resources", o.provision},
		{StepIdentity, "Configuring sign-in", o.identity},
		{StepDatabase, "Selecting database", o.database},
		{StepFiles, "Rewriting project files", o.files},
		{StepCleanup, "Removing template files", o.cleanup},
	}
	if !o.cfg.SkipRepository {
		steps = append(steps, step{StepRepository, "Publishing repository", o.repository})
	}
	steps = append(steps, step{StepSetup, "Running project setup", o.setup})

	for i, s := range steps {
		o.out.Step(i+1, len(steps), s.title)
		if err := s.run(ctx, bc); err != nil {
			o.out.StepError(i+1, len(steps), s.title)
			return bc, wrapStep(s.name, err)
		}
		o.out.StepSuccess(i+1, len(steps), s.title)
	}

	return bc, nil
}

// RequiredTools lists the executables the configured run needs.
func RequiredTools(cfg *config.Config) []command.Tool {
	tools := []command.Tool{{Name: constants.ToolAz, InstallURL: constants.AzInstallURL}}
	if cfg.UsesAzd() {
		tools = append(tools, command.Tool{Name: constants.ToolAzd, InstallURL: constants.AzdInstallURL})
	}
	if !cfg.SkipRepository {
		tools = append(tools, github.Tools()...)
	}
	if !cfg.SkipSetup {
		tools = append(tools, command.Tool{Name: constants.ToolNpm, InstallURL: constants.NpmInstallURL})
	}
	return tools
}

func (o *Orchestrator) preflight(_ context.Context, _ *Context) error {
	return command.LookupTools(o.runner, RequiredTools(o.cfg)...)
}

func (o *Orchestrator) provision(ctx context.Context, bc *Context) error {
	p := provision.New(o.azure, o.fs, o.cfg.DeployMode, o.logger)
	res, err := p.Run(ctx, provision.Request{AppName: bc.AppName, RootDir: bc.RootDir, Location: bc.Location})
	if res != nil {
		bc.touch(res.ParametersPath)
	}
	if err != nil {
		return err
	}

	bc.SubscriptionID = res.SubscriptionID
	bc.TenantID = res.TenantID
	bc.EnvironmentName = res.EnvironmentName
	bc.ResourceGroup = res.ResourceGroup
	bc.ParametersPath = res.ParametersPath
	bc.DatabaseUsername = res.Username
	bc.DatabasePassword = res.Password
	bc.ProvisionSecret = res.SessionSecret
	bc.Outputs = res.Outputs
	return nil
}

func (o *Orchestrator) identity(ctx context.Context, bc *Context) error {
	c := identity.New(o.asker, o.azure, o.fs, o.cfg.AuthMode, o.out, o.logger)
	res, err := c.Run(ctx, identity.Request{
		AppName:        bc.AppName,
		RootDir:        bc.RootDir,
		ResourceGroup:  bc.ResourceGroup,
		ParametersPath: bc.ParametersPath,
		DeployMode:     o.cfg.DeployMode,
		Outputs:        bc.Outputs,
	})
	bc.Identity = res
	if err == nil {
		if res.State == identity.Configured && res.Mode == constants.AuthApplyDeferred {
			bc.touch(bc.ParametersPath)
		}
		return nil
	}

	if o.cfg.IdentityFailure == constants.FailureAbort || !skippableIdentityError(err) {
		return err
	}
	o.out.Warningf("Skipping sign-in setup: %v", err)
	o.logger.Warn("identity step skipped", "error", err)
	return nil
}

// skippableIdentityError reports whether the skip policy may downgrade err to a warning.
// Only missing credentials and a missing app URL qualify; process, timeout and prompt
// failures always stop the run.
func skippableIdentityError(err error) bool {
	return errors.Is(err, apperrors.MissingCredential) || errors.Is(err, apperrors.MissingOutput)
}

func (o *Orchestrator) database(ctx context.Context, bc *Context) error {
	sel, err := database.NewSelector(o.asker).Select(ctx, database.Request{
		Outputs:  bc.Outputs,
		Password: bc.DatabasePassword,
	})
	if err != nil {
		return err
	}
	bc.Database = sel
	return nil
}

func (o *Orchestrator) files(ctx context.Context, bc *Context) error {
	secret, err := secrets.RandomHex(constants.SessionSecretByteSize)
	if err != nil {
		return fmt.Errorf("failed to generate session secret: %w", err)
	}
	bc.SessionSecret = secret

	webApp := bc.Outputs.Lookup(constants.OutputWebAppName)
	if webApp == "" {
		webApp = bc.AppName
	}
	values := project.WorkflowValues{
		WebAppName:     webApp,
		RegistryURL:    bc.Outputs.Lookup(constants.OutputRegistryLoginServer),
		SubscriptionID: bc.SubscriptionID,
		TenantID:       bc.TenantID,
		ImageName:      bc.AppName,
	}

	w := project.NewWriter(o.fs, bc.RootDir, o.logger)
	touched, err := project.WriteAll(ctx,
		project.Job{Path: constants.ReadmeFile, Run: func() error { return w.Readme(bc.AppName) }},
		project.Job{Path: constants.EnvFile, Run: func() error { return w.EnvironmentFile(secret, bc.Database) }},
		project.Job{Path: constants.PackageJSONFile, Run: func() error { return w.PackageJSON(bc.AppName) }},
		project.Job{Path: constants.WorkflowFile, Run: func() error { return w.Workflow(values) }},
	)
	bc.touch(touched...)
	return err
}

func (o *Orchestrator) cleanup(_ context.Context, bc *Context) error {
	w := project.NewWriter(o.fs, bc.RootDir, o.logger)
	removed, err := w.Cleanup(project.CleanupOptions{
		RemoveInitDir: o.cfg.RemoveInitDir,
		RemoveGitDir:  !o.cfg.SkipRepository && github.IsRepository(o.fs, bc.RootDir),
	})
	bc.RemovedFiles = append(bc.RemovedFiles, removed...)
	return err
}

func (o *Orchestrator) repository(ctx context.Context, bc *Context) error {
	changed, err := project.NewWriter(o.fs, bc.RootDir, o.logger).Ignore(constants.SecretPaths...)
	if err != nil {
		return err
	}
	if changed {
		bc.touch(constants.GitignoreFile)
	}

	p := github.NewPublisher(o.runner, o.azure, o.fs, o.cfg.PipelineMode, o.cfg.Timeouts(), o.logger)
	repo, err := p.Publish(ctx, github.Request{
		AppName:         bc.AppName,
		RootDir:         bc.RootDir,
		EnvironmentName: bc.EnvironmentName,
		Location:        bc.Location,
		SubscriptionID:  bc.SubscriptionID,
		TenantID:        bc.TenantID,
	})
	bc.Repository = repo
	return err
}

func (o *Orchestrator) setup(ctx context.Context, bc *Context) error {
	if o.cfg.SkipSetup {
		o.out.Infof("Skipping project setup")
		return nil
	}
	if bc.Database != nil && bc.Database.Kind == database.Devcontainer {
		o.out.Infof("Run \"npm run %s\" inside the devcontainer to finish setup", constants.SetupScript)
		return nil
	}

	cmd := command.New(constants.ToolNpm, "run", constants.SetupScript)
	cmd.Dir = bc.RootDir
	cmd.Interactive = true
	_, err := o.runner.Run(ctx, cmd)
	return err
}
