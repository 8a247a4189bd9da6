package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// runDirPrefix marks directories this package created, so RemoveRunDir never
// deletes anything else.
const runDirPrefix = "music_rounds_"

// Workspace hands out per-run exclusive work directories under a base
// directory, falling back to the system temp dir when none is configured.
type Workspace struct {
	baseDir string
}

// NewWorkspace creates a workspace rooted at baseDir
func NewWorkspace(baseDir string) *Workspace {
	return &Workspace{baseDir: baseDir}
}

// CreateRunDir creates a fresh uniquely named work directory and returns its
// path.
func (w *Workspace) CreateRunDir() (string, error) {
	base := w.baseDir
	if base == "" {
		base = os.TempDir()
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating run id: %w", err)
	}

	dir := filepath.Join(base, runDirPrefix+id.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating work dir: %w", err)
	}
	return dir, nil
}

// RemoveRunDir deletes a work directory created by CreateRunDir, refusing
// paths it does not recognize.
func (w *Workspace) RemoveRunDir(dir string) error {
	if !strings.HasPrefix(filepath.Base(dir), runDirPrefix) {
		return fmt.Errorf("refusing to remove %q: not a run directory", dir)
	}
	return os.RemoveAll(dir)
}
