package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileErrors(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatalf("LoadFrom(missing) = nil error; want not-exist error")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("LoadFrom(missing) = %v; want a not-exist error", err)
	}
}

func TestLoadFromParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mmport.toml")
	content := "default_buffer_num = 8\ndefault_buffer_size = 65536\nlog_level = \"debug\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom(%s) failed: %v", path, err)
	}
	if cfg.DefaultBufferNum != 8 || cfg.DefaultBufferSize != 65536 || cfg.LogLevel != "debug" {
		t.Errorf("LoadFrom(%s) = %+v; want {8 65536 debug}", path, cfg)
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DefaultBufferNum == 0 || cfg.DefaultBufferSize == 0 {
		t.Errorf("Load() = %+v; want non-zero defaults when no config file is present", cfg)
	}
}
