package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level: got %q, want info", cfg.Log.Level)
	}
	if cfg.History.DBPath == "" {
		t.Error("History.DBPath should have a default")
	}
	if cfg.History.Enabled {
		t.Error("History should be disabled by default")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipertts.yaml")
	content := `
log:
  level: debug
espeak:
  data_dir: /opt/espeak-ng-data
onnx:
  library_path: /opt/onnxruntime/libonnxruntime.so
history:
  enabled: true
  db_path: /tmp/tts.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level: got %q, want debug", cfg.Log.Level)
	}
	if cfg.Espeak.DataDir != "/opt/espeak-ng-data" {
		t.Errorf("Espeak.DataDir: got %q", cfg.Espeak.DataDir)
	}
	if cfg.Onnx.LibraryPath != "/opt/onnxruntime/libonnxruntime.so" {
		t.Errorf("Onnx.LibraryPath: got %q", cfg.Onnx.LibraryPath)
	}
	if !cfg.History.Enabled || cfg.History.DBPath != "/tmp/tts.db" {
		t.Errorf("History: got %+v", cfg.History)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("PIPERTTS_TEST_DATA", "/data/espeak")
	path := filepath.Join(t.TempDir(), "pipertts.yaml")
	if err := os.WriteFile(path, []byte("espeak:\n  data_dir: ${PIPERTTS_TEST_DATA}\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Espeak.DataDir != "/data/espeak" {
		t.Errorf("env expansion failed: got %q", cfg.Espeak.DataDir)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
