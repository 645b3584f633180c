// Package cmd implements the CLI commands for the chiptune tool.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chiptune-stack/chiptune/internal/client/output"
	"github.com/chiptune-stack/chiptune/internal/config"
	"github.com/chiptune-stack/chiptune/internal/constants"
	apperrors "github.com/chiptune-stack/chiptune/internal/errors"
	"github.com/chiptune-stack/chiptune/internal/logger"

	"github.com/spf13/cobra"
)

var (
	debug      bool
	verbose    bool
	configFile string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   constants.ProjectName,
	Short: constants.ProjectName,
	Long: fmt.Sprintf(`%s - %s
Turn a freshly cloned chiptune stack template into a deployed Azure application`,
		constants.ProjectName, *constants.GetVersion()),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		startTime := time.Now().UTC()
		cmd.SetContext(context.WithValue(cmd.Context(), constants.StartTimeCtxKey, startTime))
		printHeader(cmd)

		if verbose {
			output.Infof("CLI build: %s", output.Bold(*constants.GetVersion()))
			output.Infof("Verbose output enabled")
		}

		cfg, err := config.Load(config.Options{
			Root:  projectRoot(cmd, args),
			File:  configFile,
			Flags: cmd.Flags(),
		})
		if err != nil {
			return err
		}

		level := cfg.GetLogLevel()
		if debug {
			level = slog.LevelDebug
		}
		log := logger.Initialize(cfg.LogFormat, level)
		if cfg.File != "" {
			log.Debug("configuration loaded", "file", cfg.File)
			if verbose {
				output.Infof("Loaded configuration from %s", output.Bold(cfg.File))
			}
		}

		cmd.SetContext(context.WithValue(cmd.Context(), constants.ConfigCtxKey, cfg))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if verbose {
			startTime := getStartTimeFromContext(cmd)
			if !startTime.IsZero() {
				output.Infof("Time elapsed: %s", output.Bold(output.Duration(time.Since(startTime))))
			}
		}
	},
}

// Execute runs the root command and exits with the status mapped from its error.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		output.Errorf(err.Error())
	}
	os.Exit(apperrors.ExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debugging logs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a configuration file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(constants.LogFormatText),
		"Log format (text or json)")
}

// reportedError marks an error whose details were already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// projectRoot returns the first positional argument before "--", or the working directory.
func projectRoot(cmd *cobra.Command, args []string) string {
	positional, _ := splitArgs(cmd, args)
	if len(positional) > 0 {
		return positional[0]
	}
	return "."
}

// splitArgs separates positional arguments from the pass-through ones after "--".
func splitArgs(cmd *cobra.Command, args []string) ([]string, []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 || dash > len(args) {
		return args, nil
	}
	return args[:dash], args[dash:]
}

func printHeader(cmd *cobra.Command) {
	output.Header(output.Bold("🎵 " + constants.ProjectName + " " + cmd.CalledAs()))
}

// getConfigFromContext retrieves the config from the command context
func getConfigFromContext(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(constants.ConfigCtxKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("config not found in context")
	}
	return cfg, nil
}

func getStartTimeFromContext(cmd *cobra.Command) time.Time {
	startTime, ok := cmd.Context().Value(constants.StartTimeCtxKey).(time.Time)
	if !ok {
		return time.Time{}
	}
	return startTime
}

// RootCmd returns the root command for use by tools like doc generators.
func RootCmd() *cobra.Command {
	return rootCmd
}
