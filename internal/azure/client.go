// Package azure drives the az and azd CLIs.
package azure

import (
	"context"
	"log/slog"

	"github.com/chiptune-stack/chiptune/internal/command"
	"github.com/chiptune-stack/chiptune/internal/constants"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
	"github.com/chiptune-stack/chiptune/internal/secrets"
)

// Account is one entry of "az login" output.
type Account struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TenantID  string `json:"tenantId"`
	IsDefault bool   `json:"isDefault"`
	State     string `json:"state"`
	User      struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"user"`
}

// DeployRequest describes a resource-group deployment.
type DeployRequest struct {
	Name           string
	ResourceGroup  string
	TemplateFile   string
	ParametersFile string
	Dir            string
}

// Client wraps az and azd invocations.
type Client struct {
	runner   command.Runner
	timeouts command.Timeouts
	logger   *slog.Logger
}

// NewClient creates a Client.
func NewClient(runner command.Runner, timeouts command.Timeouts, logger *slog.Logger) *Client {
	return &Client{runner: runner, timeouts: timeouts, logger: logger}
}

// Login runs the interactive az login flow and returns the accessible accounts.
func (c *Client) Login(ctx context.Context) ([]Account, error) {
	cmd := command.New(constants.ToolAz, "login", "--output", "json")
	cmd.Interactive = true
	cmd.ParseJSON = true
	cmd.Timeout = c.timeouts.Auth

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}

	var accounts []Account
	if err := res.Decode(&accounts); err != nil {
		return nil, err
	}
	c.logger.Debug("az login completed", "accounts", len(accounts))
	return accounts, nil
}

// SetSubscription makes subscription the active one for later az calls.
func (c *Client) SetSubscription(ctx context.Context, subscription string) error {
	cmd := command.New(constants.ToolAz, "account", "set", "--subscription", subscription)
	cmd.Timeout = c.timeouts.Network
	_, err := c.runner.Run(ctx, cmd)
	return err
}

// EnsureExtension installs or upgrades an az extension.
func (c *Client) EnsureExtension(ctx context.Context, name string) error {
	cmd := command.New(constants.ToolAz, "extension", "add", "--name", name, "--upgrade", "--yes")
	cmd.Timeout = c.timeouts.Network
	_, err := c.runner.Run(ctx, cmd)
	return err
}

// CreateResourceGroup creates (or updates) a resource group.
func (c *Client) CreateResourceGroup(ctx context.Context, name, location string) error {
	cmd := command.New(constants.ToolAz, "group", "create",
		"--name", name,
		"--location", location,
		"--output", "json")
	cmd.Timeout = c.timeouts.Network
	_, err := c.runner.Run(ctx, cmd)
	return err
}

// DeployGroup deploys a template into a resource group and returns its outputs.
func (c *Client) DeployGroup(ctx context.Context, req DeployRequest) (Outputs, error) {
	cmd := command.New(constants.ToolAz, "deployment", "group", "create",
		"--name", req.Name,
		"--resource-group", req.ResourceGroup,
		"--template-file", req.TemplateFile,
		"--parameters", "@"+req.ParametersFile,
		"--output", "json")
	cmd.Dir = req.Dir
	cmd.ParseJSON = true
	cmd.Timeout = c.timeouts.Deploy

	return c.outputs(ctx, cmd)
}

// EnvNew creates an azd environment in dir.
func (c *Client) EnvNew(ctx context.Context, dir, env, subscription, location string) error {
	cmd := command.New(constants.ToolAzd, "env", "new", env,
		"--subscription", subscription,
		"--location", location,
		"--no-prompt")
	cmd.Dir = dir
	cmd.Timeout = c.timeouts.Network
	_, err := c.runner.Run(ctx, cmd)
	return err
}

// EnvSet stores key in the azd environment of dir. The value is masked in logs.
func (c *Client) EnvSet(ctx context.Context, dir, key, value string) error {
	cmd := command.New(constants.ToolAzd, "env", "set", key, value)
	cmd.Dir = dir
	cmd.Secrets = []string{value}
	cmd.Timeout = c.timeouts.Network
	_, err := c.runner.Run(ctx, cmd)
	return err
}

// Provision runs azd provision in dir, streaming progress to the terminal.
func (c *Client) Provision(ctx context.Context, dir string) error {
	cmd := command.New(constants.ToolAzd, "provision", "--no-prompt")
	cmd.Dir = dir
	cmd.Interactive = true
	cmd.Timeout = c.timeouts.Deploy
	_, err := c.runner.Run(ctx, cmd)
	return err
}

// EnvValues returns the azd environment values, which include the provisioning outputs.
func (c *Client) EnvValues(ctx context.Context, dir string) (Outputs, error) {
	cmd := command.New(constants.ToolAzd, "env", "get-values", "--output", "json")
	cmd.Dir = dir
	cmd.ParseJSON = true
	cmd.Timeout = c.timeouts.Network

	return c.outputs(ctx, cmd)
}

// UpdateGoogleAuth enables Google sign-in on a deployed container app.
func (c *Client) UpdateGoogleAuth(ctx context.Context, resourceGroup, app, clientID, clientSecret string) error {
	cmd := command.New(constants.ToolAz, "containerapp", "auth", "google", "update",
		"--resource-group", resourceGroup,
		"--name", app,
		"--client-id", clientID,
		"--client-secret", clientSecret,
		"--yes")
	cmd.Secrets = []string{clientSecret}
	cmd.Timeout = c.timeouts.Network
	_, err := c.runner.Run(ctx, cmd)
	return err
}

// PipelineConfig runs azd pipeline config for GitHub in dir.
func (c *Client) PipelineConfig(ctx context.Context, dir string) error {
	cmd := command.New(constants.ToolAzd, "pipeline", "config", "--provider", "github")
	cmd.Dir = dir
	cmd.Interactive = true
	cmd.Timeout = c.timeouts.Auth
	_, err := c.runner.Run(ctx, cmd)
	return err
}

func (c *Client) outputs(ctx context.Context, cmd command.Command) (Outputs, error) {
	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := res.Decode(&payload); err != nil {
		return nil, err
	}
	outputs, err := ParseOutputs(payload)
	if err != nil {
		return nil, apperrors.ErrMalformedOutput(res.CommandLine, err)
	}
	c.logger.Debug("deployment outputs parsed", "outputs", secrets.Redact(outputs.Strings()))
	return outputs, nil
}
