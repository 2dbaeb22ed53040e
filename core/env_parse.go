package core

import (
	"os"
	"strings"
)

// GetEnvOrDefault returns the trimmed value of key, or defaultValue when it is unset or blank.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// ParseBoolEnv parses key as a boolean.
// Accepts true/1/yes/on and false/0/no/off, case-insensitively.
// Anything else, including an unset variable, yields defaultValue.
func ParseBoolEnv(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
