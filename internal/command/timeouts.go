package command

import (
	"time"

	"github.com/chiptune-stack/chiptune/internal/constants"
)

// Timeouts bounds each class of CLI call.
type Timeouts struct {
	// Auth bounds interactive sign-in flows.
	Auth time.Duration
	// Deploy bounds infrastructure deployment.
	Deploy time.Duration
	// Network bounds every other call that talks to a remote service.
	Network time.Duration
}

// DefaultTimeouts returns the default bounds.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Auth:    constants.DefaultAuthTimeout,
		Deploy:  constants.DefaultDeployTimeout,
		Network: constants.DefaultNetworkTimeout,
	}
}
