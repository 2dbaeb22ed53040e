package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultFileWriterConfig(t *testing.T) {
	cfg := DefaultFileWriterConfig()
	if cfg.MaxSizeMB != DefaultMaxSizeMB || cfg.MaxBackups != DefaultMaxBackups || cfg.MaxAgeDays != DefaultMaxAgeDays {
		t.Errorf("DefaultFileWriterConfig() = %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("Compress = false, want true")
	}
}

func TestNewFileWriter(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "test.log")

	writer := NewFileWriter(logPath, FileWriterConfig{})
	msg := []byte("test log message\n")
	if n, err := writer.Write(msg); err != nil || n != len(msg) {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if err := writer.Sync(); err != nil {
		t.Errorf("Sync() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if string(content) != string(msg) {
		t.Errorf("content = %q, want %q", content, msg)
	}
}
