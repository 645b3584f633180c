// Package secrets generates the random values a bootstrap run embeds in project files
// and recognizes names whose values must never be logged.
package secrets

import (
	"sort"
	"strings"
)

// DefaultSecretPatterns contains the default patterns used to identify
// parameter, output and environment names that should be treated as secrets.
var DefaultSecretPatterns = []string{
	"SECRET",
	"TOKEN",
	"PASSWORD",
	"API_KEY",
	"PRIVATE_KEY",
	"ACCESS_KEY",
	"DATABASE_URL",
	"CONNECTION_STRING",
	"CONNECTIONSTRING",
}

// IsSecretName reports whether name matches one of the default secret patterns.
// Matching is case-insensitive, so camelCase names such as "databasePassword" match too.
func IsSecretName(name string) bool {
	return matchesAny(name, DefaultSecretPatterns)
}

// GetSecretVariableNames returns the sorted names from values that should be treated as secrets.
func GetSecretVariableNames(values map[string]string) []string {
	return GetSecretVariableNamesWithPatterns(values, DefaultSecretPatterns)
}

// GetSecretVariableNamesWithPatterns returns the sorted names that match any of the provided patterns.
func GetSecretVariableNamesWithPatterns(values map[string]string, patterns []string) []string {
	secretNames := []string{}

	for key := range values {
		if matchesAny(key, patterns) {
			secretNames = append(secretNames, key)
		}
	}

	sort.Strings(secretNames)
	return secretNames
}

// Redact returns a copy of values with every secret value replaced by a fixed mask.
func Redact(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if IsSecretName(k) && v != "" {
			out[k] = RedactedValue
			continue
		}
		out[k] = v
	}
	return out
}

// RedactedValue replaces secret values in logs.
const RedactedValue = "[REDACTED]"

func matchesAny(name string, patterns []string) bool {
	upper := strings.ToUpper(name)
	for _, pattern := range patterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
