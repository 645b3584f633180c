package bootstrap

import (
	"slices"

	"github.com/chiptune-stack/chiptune/internal/azure"
	"github.com/chiptune-stack/chiptune/internal/database"
	"github.com/chiptune-stack/chiptune/internal/github"
	"github.com/chiptune-stack/chiptune/internal/identity"
)

// Context is the state threaded through one bootstrap run. Every value a step
// produces for a later step is a field here.
type Context struct {
	AppName  string
	RootDir  string
	Location string

	SubscriptionID  string
	TenantID        string
	EnvironmentName string
	ResourceGroup   string
	ParametersPath  string

	DatabaseUsername string
	DatabasePassword string
	// ProvisionSecret is the session secret handed to the deployed app.
	ProvisionSecret string
	// SessionSecret is the session secret written to the local .env file.
	SessionSecret string

	Outputs    azure.Outputs
	Database   *database.Selection
	Identity   *identity.Result
	Repository *github.Repository

	// TouchedFiles lists project-relative paths written so far.
	TouchedFiles []string
	// RemovedFiles lists project-relative paths deleted during cleanup.
	RemovedFiles []string
	// PassThrough holds arguments after "--"; they are recorded, never interpreted.
	PassThrough []string
}

func (c *Context) touch(paths ...string) {
	for _, p := range paths {
		if !slices.Contains(c.TouchedFiles, p) {
			c.TouchedFiles = append(c.TouchedFiles, p)
		}
	}
}
