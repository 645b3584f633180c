package constants

// ConfigDirName is the name of the configuration directory in the user's home directory.
const ConfigDirName = "." + ProjectName

// ConfigFileName is the name of the global configuration file.
const ConfigFileName = "config.yaml"

// ProjectConfigFileName is the optional per-project configuration file in the root directory.
const ProjectConfigFileName = ProjectName + ".yaml"

// EnvPrefix is the prefix of every environment variable read by the configuration layer.
const EnvPrefix = "CHIPTUNE"

// ConfigDirPath returns the full path to the global configuration directory.
func ConfigDirPath(homeDir string) string {
	return homeDir + "/" + ConfigDirName
}

// ConfigFilePath returns the full path to the global configuration file.
func ConfigFilePath(homeDir string) string {
	return ConfigDirPath(homeDir) + "/" + ConfigFileName
}

// ConfigDirPermissions is the permission used for the configuration directory (0750).
const ConfigDirPermissions = 0o750

// ConfigFilePermissions is the permission used for configuration files (0600).
const ConfigFilePermissions = 0o600

// ProjectFilePermissions is the permission used for rewritten project files (0644).
const ProjectFilePermissions = 0o644

// ProjectDirPermissions is the permission used for directories created inside the project (0755).
const ProjectDirPermissions = 0o755

// LogFormat selects the slog handler.
type LogFormat string

const (
	// LogFormatText renders colored human-readable logs.
	LogFormatText LogFormat = "text"
	// LogFormatJSON renders one JSON object per record.
	LogFormatJSON LogFormat = "json"
)
