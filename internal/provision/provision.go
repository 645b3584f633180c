// Package provision creates the project's Azure infrastructure.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/chiptune-stack/chiptune/internal/azure"
	"github.com/chiptune-stack/chiptune/internal/constants"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
	"github.com/chiptune-stack/chiptune/internal/params"
	"github.com/chiptune-stack/chiptune/internal/secrets"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Azure is the subset of the CLI client the provisioner drives.
type Azure interface {
	Login(ctx context.Context) ([]azure.Account, error)
	SetSubscription(ctx context.Context, subscription string) error
	EnsureExtension(ctx context.Context, name string) error
	CreateResourceGroup(ctx context.Context, name, location string) error
	DeployGroup(ctx context.Context, req azure.DeployRequest) (azure.Outputs, error)
	EnvNew(ctx context.Context, dir, env, subscription, location string) error
	EnvSet(ctx context.Context, dir, key, value string) error
	Provision(ctx context.Context, dir string) error
	EnvValues(ctx context.Context, dir string) (azure.Outputs, error)
}

// Request carries the run values provisioning depends on.
type Request struct {
	AppName  string
	RootDir  string
	Location string
}

// Result is what provisioning hands to later steps.
type Result struct {
	Outputs         azure.Outputs
	SubscriptionID  string
	TenantID        string
	EnvironmentName string
	ResourceGroup   string
	Username        string
	Password        string
	SessionSecret   string
	// ParametersPath is the parameters document the deployment consumed, relative to the root.
	ParametersPath string
}

// Provisioner runs the provisioning sequence once per bootstrap.
type Provisioner struct {
	azure  Azure
	fs     afero.Fs
	mode   constants.DeployMode
	logger *slog.Logger
}

// New creates a Provisioner.
func New(az Azure, fs afero.Fs, mode constants.DeployMode, logger *slog.Logger) *Provisioner {
	return &Provisioner{azure: az, fs: fs, mode: mode, logger: logger}
}

// Run authenticates, renders the parameters document and deploys.
// Nothing is rolled back when a later step fails; once the parameters document is written,
// the partial Result is returned with the error.
func (p *Provisioner) Run(ctx context.Context, req Request) (*Result, error) {
	accounts, err := p.azure.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("azure login failed: %w", err)
	}
	if len(accounts) == 0 {
		return nil, apperrors.ErrNoSubscriptionFound()
	}
	account := accounts[0]
	p.logger.Info("using subscription", "subscription", account.ID, "tenant", account.TenantID)

	password, err := secrets.RandomPassword(constants.DatabasePasswordLength, constants.DefaultPasswordAlphabet)
	if err != nil {
		return nil, fmt.Errorf("failed to generate database password: %w", err)
	}
	sessionSecret, err := secrets.RandomHex(constants.ProvisionSessionSecretByteSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}

	res := &Result{
		SubscriptionID:  account.ID,
		TenantID:        account.TenantID,
		EnvironmentName: req.AppName,
		ResourceGroup:   constants.ResourceGroupPrefix + req.AppName,
		Username:        req.AppName,
		Password:        password,
		SessionSecret:   sessionSecret,
		ParametersPath:  constants.ParametersFile,
	}
	if p.mode == constants.DeployModeGroup {
		res.ParametersPath = constants.ResolvedParamsFile
	}

	if err := p.writeParameters(ctx, req, res); err != nil {
		return nil, err
	}

	switch p.mode {
	case constants.DeployModeGroup:
		res.Outputs, err = p.deployGroup(ctx, req, res)
	default:
		res.Outputs, err = p.deployAzd(ctx, req)
	}
	if err != nil {
		return res, err
	}

	if rg := res.Outputs.Lookup(constants.OutputResourceGroup); rg != "" {
		res.ResourceGroup = rg
	}
	return res, nil
}

// writeParameters renders the parameters document. With azd the environment is created
// first so the generated secrets can be stored in it instead of the document.
func (p *Provisioner) writeParameters(ctx context.Context, req Request, res *Result) error {
	src := filepath.Join(req.RootDir, constants.ParametersFile)
	doc, err := params.Load(p.fs, src)
	if err != nil {
		return err
	}

	doc.Set(constants.ParamEnvironmentName, res.EnvironmentName)
	doc.Set(constants.ParamLocation, req.Location)
	doc.Set(constants.ParamWebContainerApp, req.AppName)
	doc.Set(constants.ParamDatabaseUsername, res.Username)
	doc.Set(constants.ParamWebImageName, constants.PlaceholderImage)

	if p.mode != constants.DeployModeGroup {
		if err := p.azure.EnvNew(ctx, req.RootDir, res.EnvironmentName, res.SubscriptionID, req.Location); err != nil {
			return fmt.Errorf("failed to create azd environment: %w", err)
		}
	}
	if err := SetSecret(ctx, p.azure, p.mode, req.RootDir, doc,
		constants.ParamDatabasePassword, constants.EnvKeyDatabasePassword, res.Password); err != nil {
		return err
	}
	if err := SetSecret(ctx, p.azure, p.mode, req.RootDir, doc,
		constants.ParamSessionSecret, constants.EnvKeySessionSecret, res.SessionSecret); err != nil {
		return err
	}

	dst := filepath.Join(req.RootDir, res.ParametersPath)
	if err := doc.Save(p.fs, dst); err != nil {
		return err
	}
	p.logger.Debug("parameters document written", "path", dst, "secret_parameters", secretNames(doc))
	return nil
}

func (p *Provisioner) deployAzd(ctx context.Context, req Request) (azure.Outputs, error) {
	if err := p.azure.Provision(ctx, req.RootDir); err != nil {
		return nil, fmt.Errorf("provisioning failed: %w", err)
	}
	outputs, err := p.azure.EnvValues(ctx, req.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read provisioning outputs: %w", err)
	}
	return outputs, nil
}

func (p *Provisioner) deployGroup(ctx context.Context, req Request, res *Result) (azure.Outputs, error) {
	if err := p.azure.SetSubscription(ctx, res.SubscriptionID); err != nil {
		return nil, fmt.Errorf("failed to select subscription: %w", err)
	}
	if err := p.azure.EnsureExtension(ctx, constants.ContainerAppExtension); err != nil {
		return nil, fmt.Errorf("failed to install %s extension: %w", constants.ContainerAppExtension, err)
	}
	if err := p.azure.CreateResourceGroup(ctx, res.ResourceGroup, req.Location); err != nil {
		return nil, fmt.Errorf("failed to create resource group: %w", err)
	}

	outputs, err := p.azure.DeployGroup(ctx, azure.DeployRequest{
		Name:           deploymentName(req.AppName),
		ResourceGroup:  res.ResourceGroup,
		TemplateFile:   constants.TemplateFile,
		ParametersFile: res.ParametersPath,
		Dir:            req.RootDir,
	})
	if err != nil {
		return nil, fmt.Errorf("deployment failed: %w", err)
	}
	return outputs, nil
}

func secretNames(doc *params.Document) []string {
	values := make(map[string]string)
	for _, name := range doc.Names() {
		values[name] = doc.GetString(name)
	}
	return secrets.GetSecretVariableNames(values)
}

func deploymentName(app string) string {
	return app + "-" + uuid.NewString()[:8]
}
