// Package config manages configuration for the chiptune CLI.
// It uses Viper to merge defaults, an optional YAML file, CHIPTUNE_ environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chiptune-stack/chiptune/internal/command"
	"github.com/chiptune-stack/chiptune/internal/constants"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved configuration of one bootstrap run.
type Config struct {
	Location        string                  `mapstructure:"location" yaml:"location" validate:"required"`
	DeployMode      constants.DeployMode    `mapstructure:"deploy_mode" yaml:"deploy_mode" validate:"oneof=azd group"`
	AuthMode        constants.AuthApplyMode `mapstructure:"auth_mode" yaml:"auth_mode" validate:"oneof=immediate deferred"`
	PipelineMode    constants.PipelineMode  `mapstructure:"pipeline_mode" yaml:"pipeline_mode" validate:"oneof=secrets azd"`
	IdentityFailure constants.FailurePolicy `mapstructure:"identity_failure" yaml:"identity_failure" validate:"oneof=skip abort"`

	NameMaxLength   int  `mapstructure:"name_max_length" yaml:"name_max_length" validate:"min=1,max=32"`
	NameSuffixBytes int  `mapstructure:"name_suffix_bytes" yaml:"name_suffix_bytes" validate:"min=0,max=8"`
	SkipRepository  bool `mapstructure:"skip_repository" yaml:"skip_repository"`
	SkipSetup       bool `mapstructure:"skip_setup" yaml:"skip_setup"`
	RemoveInitDir   bool `mapstructure:"remove_init_dir" yaml:"remove_init_dir"`

	AuthTimeout    time.Duration `mapstructure:"auth_timeout" yaml:"auth_timeout" validate:"min=1s"`
	DeployTimeout  time.Duration `mapstructure:"deploy_timeout" yaml:"deploy_timeout" validate:"min=1s"`
	NetworkTimeout time.Duration `mapstructure:"network_timeout" yaml:"network_timeout" validate:"min=1s"`

	LogLevel  string              `mapstructure:"log_level" yaml:"log_level"`
	LogFormat constants.LogFormat `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`

	// File is the configuration file that was read, empty when none was found.
	File string `mapstructure:"-" yaml:"-"`
}

// Flag names bound to configuration keys.
var flagKeys = map[string]string{
	"location":          "location",
	"deploy-mode":       "deploy_mode",
	"auth-mode":         "auth_mode",
	"pipeline-mode":     "pipeline_mode",
	"identity-failure":  "identity_failure",
	"name-max-length":   "name_max_length",
	"name-suffix-bytes": "name_suffix_bytes",
	"skip-repository":   "skip_repository",
	"skip-setup":        "skip_setup",
	"auth-timeout":      "auth_timeout",
	"deploy-timeout":    "deploy_timeout",
	"network-timeout":   "network_timeout",
	"log-format":        "log_format",
}

var validate = validator.New()

// Options control where configuration is read from.
type Options struct {
	// Fs is the filesystem configuration files are read from. Defaults to the OS filesystem.
	Fs afero.Fs
	// Root is the project root searched for a chiptune.yaml file.
	Root string
	// File is an explicit configuration file; it must exist.
	File string
	// HomeDir overrides the user's home directory.
	HomeDir string
	// Flags are bound on top of every other source when set.
	Flags *pflag.FlagSet
}

// Load resolves the configuration. Flags take precedence over environment variables,
// which take precedence over the configuration file and then the defaults.
func Load(opts Options) (*Config, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	v := viper.New()
	v.SetFs(opts.Fs)
	setDefaults(v)

	file, err := findConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err = v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error loading config file %s: %w", file, err)
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		if err = bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err = v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.File = file

	if err = validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration, ignoring files, environment and flags.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// GetLogLevel returns the slog.Level from the string configuration.
// Defaults to INFO if the level string is invalid.
func (c *Config) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Timeouts returns the CLI call bounds.
func (c *Config) Timeouts() command.Timeouts {
	return command.Timeouts{
		Auth:    c.AuthTimeout,
		Deploy:  c.DeployTimeout,
		Network: c.NetworkTimeout,
	}
}

// UsesAzd reports whether any configured step runs the azd CLI.
func (c *Config) UsesAzd() bool {
	return c.DeployMode == constants.DeployModeAzd ||
		(!c.SkipRepository && c.PipelineMode == constants.PipelineAzd)
}

// Save writes cfg as YAML to path, creating the parent directory when needed.
func Save(fs afero.Fs, path string, cfg *Config) error {
	if err := fs.MkdirAll(filepath.Dir(path), constants.ConfigDirPermissions); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	v := viper.New()
	v.SetFs(fs)
	v.Set("location", cfg.Location)
	v.Set("deploy_mode", string(cfg.DeployMode))
	v.Set("auth_mode", string(cfg.AuthMode))
	v.Set("pipeline_mode", string(cfg.PipelineMode))
	v.Set("identity_failure", string(cfg.IdentityFailure))
	v.Set("name_max_length", cfg.NameMaxLength)
	v.Set("name_suffix_bytes", cfg.NameSuffixBytes)
	v.Set("skip_repository", cfg.SkipRepository)
	v.Set("skip_setup", cfg.SkipSetup)
	v.Set("remove_init_dir", cfg.RemoveInitDir)
	v.Set("auth_timeout", cfg.AuthTimeout.String())
	v.Set("deploy_timeout", cfg.DeployTimeout.String())
	v.Set("network_timeout", cfg.NetworkTimeout.String())
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_format", string(cfg.LogFormat))

	v.SetConfigType("yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	if err := fs.Chmod(path, constants.ConfigFilePermissions); err != nil {
		return fmt.Errorf("error setting config file permissions: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("location", constants.DefaultLocation)
	v.SetDefault("deploy_mode", string(constants.DeployModeAzd))
	v.SetDefault("auth_mode", string(constants.AuthApplyImmediate))
	v.SetDefault("pipeline_mode", string(constants.PipelineSecrets))
	v.SetDefault("identity_failure", string(constants.FailureSkip))
	v.SetDefault("name_max_length", constants.DefaultAppNameMaxLength)
	v.SetDefault("name_suffix_bytes", 0)
	v.SetDefault("skip_repository", false)
	v.SetDefault("skip_setup", false)
	v.SetDefault("remove_init_dir", true)
	v.SetDefault("auth_timeout", constants.DefaultAuthTimeout.String())
	v.SetDefault("deploy_timeout", constants.DefaultDeployTimeout.String())
	v.SetDefault("network_timeout", constants.DefaultNetworkTimeout.String())
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_format", string(constants.LogFormatText))
}

func findConfigFile(opts Options) (string, error) {
	if opts.File != "" {
		if _, err := opts.Fs.Stat(opts.File); err != nil {
			return "", fmt.Errorf("config file %s: %w", opts.File, err)
		}
		return opts.File, nil
	}

	var candidates []string
	if opts.Root != "" {
		candidates = append(candidates, filepath.Join(opts.Root, constants.ProjectConfigFileName))
	}
	home := opts.HomeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			home = ""
		}
	}
	if home != "" {
		candidates = append(candidates, constants.ConfigFilePath(home))
	}

	for _, path := range candidates {
		_, err := opts.Fs.Stat(path)
		switch {
		case err == nil:
			return path, nil
		case errors.Is(err, os.ErrNotExist):
			continue
		default:
			return "", fmt.Errorf("error checking config file %s: %w", path, err)
		}
	}
	return "", nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}
