package cmd

import (
	"runtime"

	"github.com/chiptune-stack/chiptune/internal/client/output"
	"github.com/chiptune-stack/chiptune/internal/constants"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version of the CLI",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		output.KeyValue("CLI version", *constants.GetVersion())
		output.KeyValue("Go version", runtime.Version())
		output.KeyValue("Platform", runtime.GOOS+"/"+runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
