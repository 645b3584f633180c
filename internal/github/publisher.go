// Package github publishes the bootstrapped project to a private GitHub repository.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chiptune-stack/chiptune/internal/command"
	"github.com/chiptune-stack/chiptune/internal/constants"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"

	"github.com/spf13/afero"
)

// Repository secrets registered in secrets pipeline mode.
const (
	SecretEnvName        = "AZURE_ENV_NAME"
	SecretLocation       = "AZURE_LOCATION"
	SecretSubscriptionID = "AZURE_SUBSCRIPTION_ID"
	SecretTenantID       = "AZURE_TENANT_ID"
)

// Tools returns the executables publishing needs.
func Tools() []command.Tool {
	return []command.Tool{
		{Name: constants.ToolGit, InstallURL: constants.GitInstallURL},
		{Name: constants.ToolGh, InstallURL: constants.GhInstallURL},
	}
}

// Pipeline configures CI through azd.
type Pipeline interface {
	PipelineConfig(ctx context.Context, dir string) error
}

// Request carries the values the repository and its CI need.
type Request struct {
	AppName         string
	RootDir         string
	EnvironmentName string
	Location        string
	SubscriptionID  string
	TenantID        string
}

// Repository describes the published repository.
type Repository struct {
	Owner   string
	Name    string
	URL     string
	Secrets []string
}

// FullName returns owner/name.
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Publisher runs the git and gh sequence.
type Publisher struct {
	runner   command.Runner
	pipeline Pipeline
	fs       afero.Fs
	mode     constants.PipelineMode
	timeouts command.Timeouts
	logger   *slog.Logger
}

// NewPublisher creates a Publisher.
func NewPublisher(
	runner command.Runner,
	pipeline Pipeline,
	fs afero.Fs,
	mode constants.PipelineMode,
	timeouts command.Timeouts,
	logger *slog.Logger,
) *Publisher {
	return &Publisher{runner: runner, pipeline: pipeline, fs: fs, mode: mode, timeouts: timeouts, logger: logger}
}

// Publish authenticates, commits the project, creates the remote and wires CI.
// Authentication completes before the remote is created and the commit exists before the push.
func (p *Publisher) Publish(ctx context.Context, req Request) (*Repository, error) {
	if err := command.LookupTools(p.runner, Tools()...); err != nil {
		return nil, err
	}

	login := command.New(constants.ToolGh, "auth", "login",
		"--hostname", constants.GitHubHost,
		"--git-protocol", "https",
		"--web")
	login.Interactive = true
	login.Timeout = p.timeouts.Auth
	if _, err := p.runner.Run(ctx, login); err != nil {
		return nil, fmt.Errorf("github login failed: %w", err)
	}

	for _, args := range [][]string{
		{"init"},
		{"add", "."},
		{"commit", "-m", constants.InitialCommitMessage},
	} {
		if _, err := p.run(ctx, req.RootDir, 0, constants.ToolGit, args...); err != nil {
			return nil, err
		}
	}

	owner, err := p.currentUser(ctx, req.RootDir)
	if err != nil {
		return nil, err
	}
	repo := &Repository{Owner: owner, Name: req.AppName}

	if _, err := p.run(ctx, req.RootDir, p.timeouts.Network, constants.ToolGh,
		"repo", "create", req.AppName, "--private", "--push", "--source", req.RootDir); err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	repo.URL, err = DetectRemoteURL(p.fs, req.RootDir)
	if err != nil {
		repo.URL = "https://" + constants.GitHubHost + "/" + repo.FullName()
	}
	p.logger.Info("repository created", "repository", repo.FullName(), "url", repo.URL)

	if err := p.configurePipeline(ctx, req, repo); err != nil {
		return repo, err
	}
	return repo, nil
}

func (p *Publisher) currentUser(ctx context.Context, dir string) (string, error) {
	cmd := command.New(constants.ToolGh, "api", "user")
	cmd.Dir = dir
	cmd.ParseJSON = true
	cmd.Timeout = p.timeouts.Network
	res, err := p.runner.Run(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("failed to query github user: %w", err)
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := res.Decode(&user); err != nil {
		return "", err
	}
	if user.Login == "" {
		return "", apperrors.ErrMalformedOutput(res.CommandLine, fmt.Errorf("response has no login"))
	}
	return user.Login, nil
}

func (p *Publisher) configurePipeline(ctx context.Context, req Request, repo *Repository) error {
	if p.mode == constants.PipelineAzd {
		if err := p.pipeline.PipelineConfig(ctx, req.RootDir); err != nil {
			return fmt.Errorf("pipeline configuration failed: %w", err)
		}
		return nil
	}

	secrets := []struct{ name, value string }{
		{SecretEnvName, req.EnvironmentName},
		{SecretLocation, req.Location},
		{SecretSubscriptionID, req.SubscriptionID},
		{SecretTenantID, req.TenantID},
	}
	for _, s := range secrets {
		if s.value == "" {
			p.logger.Warn("skipping empty repository secret", "name", s.name)
			continue
		}
		cmd := command.New(constants.ToolGh, "secret", "set", s.name, "--body", s.value, "--repo", repo.FullName())
		cmd.Dir = req.RootDir
		cmd.Secrets = []string{s.value}
		cmd.Timeout = p.timeouts.Network
		if _, err := p.runner.Run(ctx, cmd); err != nil {
			return fmt.Errorf("failed to set repository secret %s: %w", s.name, err)
		}
		repo.Secrets = append(repo.Secrets, s.name)
	}
	return nil
}

func (p *Publisher) run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (*command.Result, error) {
	cmd := command.New(name, args...)
	cmd.Dir = dir
	cmd.Timeout = timeout
	return p.runner.Run(ctx, cmd)
}
