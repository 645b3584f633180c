// Package main implements the chiptune CLI.
// It bootstraps a freshly cloned chiptune stack project into a deployed application.
package main

import "github.com/chiptune-stack/chiptune/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
