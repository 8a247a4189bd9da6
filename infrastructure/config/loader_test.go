package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `paths:
  output_directory: /music/rounds
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Paths.OutputDirectory != "/music/rounds" {
		t.Errorf("OutputDirectory = %q, want %q", cfg.Paths.OutputDirectory, "/music/rounds")
	}
	if cfg.Processing.Parallelism != DefaultParallelism {
		t.Errorf("Parallelism = %d, want default %d", cfg.Processing.Parallelism, DefaultParallelism)
	}
	if cfg.Processing.TimeoutMinutes != DefaultTimeoutMinutes {
		t.Errorf("TimeoutMinutes = %d, want default %d", cfg.Processing.TimeoutMinutes, DefaultTimeoutMinutes)
	}
	if cfg.Paths.TracksFile != DefaultTracksFile {
		t.Errorf("TracksFile = %q, want default %q", cfg.Paths.TracksFile, DefaultTracksFile)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() on missing file expected error, got nil")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() unexpected error: %v", err)
	}
	if cfg.Paths.OutputDirectory != DefaultOutputDir {
		t.Errorf("OutputDirectory = %q, want default %q", cfg.Paths.OutputDirectory, DefaultOutputDir)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Paths.OutputDirectory = "/pub/quiz"
	cfg.Processing.Parallelism = 2
	cfg.Drive.FolderID = "folder123"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if loaded.Paths.OutputDirectory != "/pub/quiz" {
		t.Errorf("OutputDirectory = %q, want %q", loaded.Paths.OutputDirectory, "/pub/quiz")
	}
	if loaded.Processing.Parallelism != 2 {
		t.Errorf("Parallelism = %d, want 2", loaded.Processing.Parallelism)
	}
	if loaded.Drive.FolderID != "folder123" {
		t.Errorf("Drive.FolderID = %q, want %q", loaded.Drive.FolderID, "folder123")
	}
}
