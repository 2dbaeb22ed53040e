package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets every variable LoadConfig reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvProfile, EnvManifest, EnvBaseDir, EnvHistoryDB,
		EnvLogFile, EnvLogLevel, EnvDevMode, EnvPprof, EnvPprofDir,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Profile != DefaultProfile {
		t.Errorf("Profile = %q, want %q", cfg.Profile, DefaultProfile)
	}
	if cfg.BaseDir != DefaultBaseDir {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, DefaultBaseDir)
	}
	if cfg.LogFile != DefaultLogFile {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, DefaultLogFile)
	}
	if cfg.UsesManifest() || cfg.HistoryEnabled() || cfg.DevMode {
		t.Errorf("unexpected optional features enabled: %+v", cfg)
	}
	if cfg.PprofMode != PprofOff {
		t.Errorf("PprofMode = %q, want off", cfg.PprofMode)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	manifest := filepath.Join(dir, "batch.yaml")
	if err := os.WriteFile(manifest, []byte("files: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvProfile, "make-transparent")
	t.Setenv(EnvManifest, manifest)
	t.Setenv(EnvBaseDir, dir)
	t.Setenv(EnvHistoryDB, filepath.Join(dir, "history.db"))
	t.Setenv(EnvDevMode, "yes")
	t.Setenv(EnvPprof, "CPU")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Profile != "make-transparent" || cfg.ManifestPath != manifest || cfg.BaseDir != dir {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.UsesManifest() || !cfg.HistoryEnabled() || !cfg.DevMode {
		t.Errorf("optional features not enabled: %+v", cfg)
	}
	if cfg.PprofMode != PprofCPU {
		t.Errorf("PprofMode = %q, want cpu", cfg.PprofMode)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		env      map[string]string
		wantCode string
	}{
		{"missing base dir", map[string]string{EnvBaseDir: filepath.Join(dir, "nope")}, ErrCodeBaseDirMissing},
		{"base dir is a file", map[string]string{EnvBaseDir: file}, ErrCodeBaseDirMissing},
		{"missing manifest", map[string]string{EnvManifest: filepath.Join(dir, "x.yaml")}, ErrCodeManifestMissing},
		{"manifest is a dir", map[string]string{EnvManifest: dir}, ErrCodeManifestMissing},
		{"bad pprof", map[string]string{EnvPprof: "trace"}, ErrCodeInvalidPprof},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if code := GetErrorCode(err); code != tt.wantCode {
				t.Errorf("LoadConfig() error = %v (code %q), want code %q", err, code, tt.wantCode)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()

	loaded, err := LoadEnvFile(filepath.Join(dir, ".env"))
	if loaded || err != nil {
		t.Errorf("LoadEnvFile(missing) = %v, %v; want false, nil", loaded, err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("BGCLEAR_TEST_FROM_ENV_FILE=hello\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BGCLEAR_TEST_FROM_ENV_FILE", "")
	os.Unsetenv("BGCLEAR_TEST_FROM_ENV_FILE")

	loaded, err = LoadEnvFile(path)
	if !loaded || err != nil {
		t.Fatalf("LoadEnvFile() = %v, %v; want true, nil", loaded, err)
	}
	if got := os.Getenv("BGCLEAR_TEST_FROM_ENV_FILE"); got != "hello" {
		t.Errorf("variable = %q, want hello", got)
	}
}

func TestConfigError(t *testing.T) {
	cause := errors.New("stat failed")
	err := ErrBaseDirMissing("/x", cause)

	if !errors.Is(err, cause) {
		t.Error("ConfigError does not unwrap to its cause")
	}
	wrapped := errors.Join(errors.New("outer"), err)
	if cfgErr, ok := IsConfigError(wrapped); !ok || cfgErr.Code != ErrCodeBaseDirMissing {
		t.Errorf("IsConfigError(wrapped) = %v, %v", cfgErr, ok)
	}
	if GetErrorCode(errors.New("plain")) != "" {
		t.Error("GetErrorCode(plain) should be empty")
	}
	if ErrInvalidPprof("x").Error() == "" {
		t.Error("empty error message")
	}
}
