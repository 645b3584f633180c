// Package constants defines global constants used throughout chiptune.
// It includes version information, well-known project paths, and default values.
package constants

var version = "0.0.0-development" // Updated by CI/CD pipeline at build time

// GetVersion returns the current version of chiptune.
func GetVersion() *string {
	return &version
}

// ProjectName is the name of the CLI tool
const ProjectName = "chiptune"
