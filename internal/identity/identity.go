// Package identity optionally wires Google sign-in into the deployed web app.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/chiptune-stack/chiptune/internal/azure"
	"github.com/chiptune-stack/chiptune/internal/client/output"
	"github.com/chiptune-stack/chiptune/internal/constants"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
	"github.com/chiptune-stack/chiptune/internal/params"
	"github.com/chiptune-stack/chiptune/internal/prompt"
	"github.com/chiptune-stack/chiptune/internal/provision"

	"github.com/spf13/afero"
)

// State is the configurator's progress.
type State int

// States. Declined and Configured are terminal; Failed records a recoverable MissingCredential.
const (
	NotAsked State = iota
	Declined
	Collecting
	Configured
	Failed
)

func (s State) String() string {
	switch s {
	case Declined:
		return "declined"
	case Collecting:
		return "collecting"
	case Configured:
		return "configured"
	case Failed:
		return "failed"
	default:
		return "not-asked"
	}
}

// Question names.
const (
	QuestionSetup        = "setupGoogleAuth"
	QuestionClientID     = "clientId"
	QuestionClientSecret = "clientSecret" //nolint:gosec // G101: question name
)

// InstructionsURL explains how to register an OAuth client with Google.
const InstructionsURL = "https://developers.google.com/identity/protocols/oauth2/openid-connect"

// CallbackPath is appended to the app URL to form the authorization callback.
const CallbackPath = "/.auth/login/google/callback"

// Updater applies credentials to a running container app or stores them in its azd environment.
type Updater interface {
	UpdateGoogleAuth(ctx context.Context, resourceGroup, app, clientID, clientSecret string) error
	provision.EnvSetter
}

// Request carries what the configurator reads from earlier steps.
type Request struct {
	AppName        string
	RootDir        string
	ResourceGroup  string
	ParametersPath string
	DeployMode     constants.DeployMode
	Outputs        azure.Outputs
}

// Result is the terminal state and, when configured, the registered client.
type Result struct {
	State       State
	ClientID    string
	Mode        constants.AuthApplyMode
	CallbackURL string
	TestURL     string
}

// Configurator walks the OAuth registration flow.
type Configurator struct {
	asker   prompt.Asker
	updater Updater
	fs      afero.Fs
	mode    constants.AuthApplyMode
	out     output.Outputter
	logger  *slog.Logger
}

// New creates a Configurator.
func New(
	asker prompt.Asker,
	updater Updater,
	fs afero.Fs,
	mode constants.AuthApplyMode,
	out output.Outputter,
	logger *slog.Logger,
) *Configurator {
	return &Configurator{asker: asker, updater: updater, fs: fs, mode: mode, out: out, logger: logger}
}

// Run asks whether to set up sign-in and, if so, collects and applies the credentials.
// A non-nil Result is returned alongside any error so callers can report the state reached.
func (c *Configurator) Run(ctx context.Context, req Request) (*Result, error) {
	res := &Result{State: NotAsked, Mode: c.mode}

	ok, err := prompt.AskConfirm(ctx, c.asker, QuestionSetup, "Do you want to set up Google sign-in for the web app?", false)
	if err != nil {
		return res, err
	}
	if !ok {
		res.State = Declined
		return res, nil
	}
	res.State = Collecting

	appURL, err := req.Outputs.String(constants.OutputWebURL)
	if err != nil {
		res.State = Failed
		return res, err
	}
	res.CallbackURL = appURL + CallbackPath

	c.out.Infof("Follow the instructions for creating an OAuth app on Google: %s", InstructionsURL)
	c.out.Infof("Enter the homepage URL and authorization callback URL below when creating the app.")
	c.out.KeyValue("Homepage URL", appURL)
	c.out.KeyValue("Authorization callback URL", res.CallbackURL)

	clientID, err := c.ask(ctx, QuestionClientID, "Enter client ID:", false)
	if err != nil {
		res.State = Failed
		return res, err
	}
	clientSecret, err := c.ask(ctx, QuestionClientSecret, "Enter client secret:", true)
	if err != nil {
		res.State = Failed
		return res, err
	}

	if err := c.apply(ctx, req, clientID, clientSecret); err != nil {
		res.State = Failed
		return res, err
	}

	res.State = Configured
	res.ClientID = clientID
	res.TestURL, err = SignInTestURL(clientID, res.CallbackURL)
	if err != nil {
		c.logger.Warn("failed to build sign-in test URL", "error", err)
	}
	c.logger.Info("google sign-in configured", "mode", string(c.mode))
	return res, nil
}

func (c *Configurator) ask(ctx context.Context, name, message string, secret bool) (string, error) {
	answer, err := prompt.AskInput(ctx, c.asker, prompt.Question{Name: name, Message: message, Secret: secret})
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", apperrors.ErrMissingCredential(name)
	}
	return answer, nil
}

func (c *Configurator) apply(ctx context.Context, req Request, clientID, clientSecret string) error {
	switch c.mode {
	case constants.AuthApplyDeferred:
		path := filepath.Join(req.RootDir, req.ParametersPath)
		doc, err := params.Load(c.fs, path)
		if err != nil {
			return err
		}
		doc.Set(constants.ParamGoogleClientID, clientID)
		if err := provision.SetSecret(ctx, c.updater, req.DeployMode, req.RootDir, doc,
			constants.ParamGoogleClientSecret, constants.EnvKeyGoogleClientSecret, clientSecret); err != nil {
			return err
		}
		return doc.Save(c.fs, path)
	default:
		app := req.Outputs.Lookup(constants.OutputWebAppName)
		if app == "" {
			app = req.AppName
		}
		if err := c.updater.UpdateGoogleAuth(ctx, req.ResourceGroup, app, clientID, clientSecret); err != nil {
			return fmt.Errorf("failed to update container app auth settings: %w", err)
		}
		return nil
	}
}
