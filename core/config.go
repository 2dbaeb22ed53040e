package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfig.
const (
	EnvProfile   = "BGCLEAR_PROFILE"
	EnvManifest  = "BGCLEAR_MANIFEST"
	EnvBaseDir   = "BGCLEAR_BASE_DIR"
	EnvHistoryDB = "BGCLEAR_HISTORY_DB"
	EnvLogFile   = "BGCLEAR_LOG_FILE"
	EnvLogLevel  = "BGCLEAR_LOG_LEVEL"
	EnvDevMode   = "DEV_MODE"
	EnvPprof     = "BGCLEAR_PPROF"
	EnvPprofDir  = "BGCLEAR_PPROF_DIR"
)

// Defaults
const (
	DefaultProfile = "fix-icons"
	DefaultBaseDir = "."
	DefaultLogFile = "bgclear.log"
)

// Profiling modes accepted in BGCLEAR_PPROF.
const (
	PprofOff = ""
	PprofCPU = "cpu"
	PprofMem = "mem"
)

// Config holds all configuration values
type Config struct {
	// Batch selection. ManifestPath wins over Profile when both are set.
	Profile      string
	ManifestPath string
	BaseDir      string

	// Optional SQLite run history. Empty disables it.
	HistoryDBPath string

	// Logging
	LogFile  string
	LogLevel string
	DevMode  bool

	// Profiling
	PprofMode string
	PprofDir  string
}

// LoadEnvFile loads variables from path into the environment without
// overriding ones already set. A missing file is not an error; loaded
// reports whether anything was read.
func LoadEnvFile(path string) (loaded bool, err error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, ErrEnvFile(path, err)
	}
	return true, nil
}

// LoadConfig reads configuration from the environment and validates it.
// Returned errors are *ConfigError.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Profile:       GetEnvOrDefault(EnvProfile, DefaultProfile),
		ManifestPath:  GetEnvOrDefault(EnvManifest, ""),
		BaseDir:       GetEnvOrDefault(EnvBaseDir, DefaultBaseDir),
		HistoryDBPath: GetEnvOrDefault(EnvHistoryDB, ""),
		LogFile:       GetEnvOrDefault(EnvLogFile, DefaultLogFile),
		LogLevel:      GetEnvOrDefault(EnvLogLevel, ""),
		DevMode:       ParseBoolEnv(EnvDevMode, false),
		PprofMode:     strings.ToLower(GetEnvOrDefault(EnvPprof, PprofOff)),
		PprofDir:      GetEnvOrDefault(EnvPprofDir, "."),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks paths and enumerated values.
func (c *Config) Validate() error {
	info, err := os.Stat(c.BaseDir)
	if err != nil {
		return ErrBaseDirMissing(c.BaseDir, err)
	}
	if !info.IsDir() {
		return ErrBaseDirMissing(c.BaseDir, fmt.Errorf("%s is not a directory", c.BaseDir))
	}

	if c.ManifestPath != "" {
		info, err := os.Stat(c.ManifestPath)
		if err != nil {
			return ErrManifestMissing(c.ManifestPath, err)
		}
		if info.IsDir() {
			return ErrManifestMissing(c.ManifestPath, fmt.Errorf("%s is a directory", c.ManifestPath))
		}
	}

	switch c.PprofMode {
	case PprofOff, PprofCPU, PprofMem:
	default:
		return ErrInvalidPprof(c.PprofMode)
	}
	return nil
}

// UsesManifest reports whether the batch comes from a manifest file.
func (c *Config) UsesManifest() bool {
	return c.ManifestPath != ""
}

// HistoryEnabled reports whether run history should be recorded.
func (c *Config) HistoryEnabled() bool {
	return c.HistoryDBPath != ""
}
