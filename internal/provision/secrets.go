package provision

import (
	"context"
	"fmt"

	"github.com/chiptune-stack/chiptune/internal/constants"
	"github.com/chiptune-stack/chiptune/internal/params"
)

// EnvSetter stores values in an azd environment.
type EnvSetter interface {
	EnvSet(ctx context.Context, dir, key, value string) error
}

// SetSecret records a sensitive parameter. With azd the value goes to the azd environment
// and the document holds a ${key} reference. A resource-group deployment reads the resolved
// document directly, so the value is written inline there.
func SetSecret(
	ctx context.Context,
	env EnvSetter,
	mode constants.DeployMode,
	dir string,
	doc *params.Document,
	name, key, value string,
) error {
	if mode == constants.DeployModeGroup {
		doc.Set(name, value)
		return nil
	}
	if err := env.EnvSet(ctx, dir, key, value); err != nil {
		return fmt.Errorf("failed to store %s in the azd environment: %w", key, err)
	}
	doc.Set(name, "${"+key+"}")
	return nil
}
