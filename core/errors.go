package core

import (
	"errors"
	"fmt"
)

// ConfigError is a configuration problem with an instruction for fixing it.
type ConfigError struct {
	Code    string // stable code for programmatic handling
	Message string // what is wrong
	Action  string // what to do about it
	Err     error  // underlying cause, if any
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Error codes for configuration errors
const (
	ErrCodeEnvFile         = "ENV_FILE_INVALID"
	ErrCodeBaseDirMissing  = "BASE_DIR_MISSING"
	ErrCodeManifestMissing = "MANIFEST_MISSING"
	ErrCodeInvalidPprof    = "INVALID_PPROF_MODE"
)

// ErrEnvFile reports a .env file that exists but could not be parsed.
func ErrEnvFile(path string, err error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeEnvFile,
		Message: fmt.Sprintf("Cannot load environment file %s: %v", path, err),
		Action:  "Fix the syntax of the file or remove it",
		Err:     err,
	}
}

// ErrBaseDirMissing reports a BGCLEAR_BASE_DIR that is not a directory.
func ErrBaseDirMissing(dir string, err error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeBaseDirMissing,
		Message: fmt.Sprintf("Base directory %s is not usable", dir),
		Action:  fmt.Sprintf("Set %s to an existing directory", EnvBaseDir),
		Err:     err,
	}
}

// ErrManifestMissing reports a BGCLEAR_MANIFEST that does not point at a file.
func ErrManifestMissing(path string, err error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeManifestMissing,
		Message: fmt.Sprintf("Manifest not found: %s", path),
		Action:  fmt.Sprintf("Point %s at a YAML manifest or unset it to use %s", EnvManifest, EnvProfile),
		Err:     err,
	}
}

// ErrInvalidPprof reports an unsupported BGCLEAR_PPROF value.
func ErrInvalidPprof(mode string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidPprof,
		Message: fmt.Sprintf("Unsupported profiling mode %q", mode),
		Action:  fmt.Sprintf("Set %s to cpu, mem or leave it empty", EnvPprof),
	}
}

// IsConfigError reports whether err is or wraps a ConfigError.
func IsConfigError(err error) (*ConfigError, bool) {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}

// GetErrorCode returns the ConfigError code in err, or "".
func GetErrorCode(err error) string {
	if cfgErr, ok := IsConfigError(err); ok {
		return cfgErr.Code
	}
	return ""
}
