package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pardeema/trivia-music/domain/clip"
)

// ErrNoSuccessfulTracks is returned when every clip in the run failed; an
// empty archive is never produced.
var ErrNoSuccessfulTracks = errors.New("no tracks were successfully processed")

const archivePrefix = "music_rounds_"

// Assembler folds successful clips into one timestamped zip archive.
type Assembler struct {
	now func() time.Time
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock overrides the clock used to timestamp archive names.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

// NewAssembler creates an archive assembler.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble writes the successful results, which must already be in queue
// order, into a zip under outputDir and returns its path. Entries are renamed
// NN-<filename> where NN counts only archived clips, so the archive is densely
// numbered even when failures are interleaved. Failed and cancelled results
// are skipped.
func (a *Assembler) Assemble(results []clip.Result, outputDir string) (string, error) {
	var included []clip.Result
	for _, r := range results {
		if r.Succeeded() {
			included = append(included, r)
		}
	}
	if len(included) == 0 {
		return "", ErrNoSuccessfulTracks
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %q: %w", outputDir, err)
	}

	path := a.reserveName(outputDir)
	if err := writeArchive(path, included); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// reserveName picks music_rounds_<YYYYMMDD>_<HHMMSS>.zip, appending a numeric
// suffix when two assemblies land on the same second.
func (a *Assembler) reserveName(outputDir string) string {
	base := archivePrefix + a.now().Format("20060102_150405")
	path := filepath.Join(outputDir, base+".zip")
	for i := 2; ; i++ {
		if _, err := os.Stat(path); err != nil {
			return path
		}
		path = filepath.Join(outputDir, fmt.Sprintf("%s_%d.zip", base, i))
	}
}

func writeArchive(path string, included []clip.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive %q: %w", path, err)
	}

	zw := zip.NewWriter(f)
	for n, r := range included {
		if err := addEntry(zw, n+1, r); err != nil {
			zw.Close()
			f.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalizing archive %q: %w", path, err)
	}
	return f.Close()
}

func addEntry(zw *zip.Writer, n int, r clip.Result) error {
	entry := fmt.Sprintf("%02d-%s", n, r.Filename)
	w, err := zw.Create(entry)
	if err != nil {
		return fmt.Errorf("adding %q to archive: %w", entry, err)
	}
	src, err := os.Open(r.Path)
	if err != nil {
		return fmt.Errorf("reading clip %q: %w", r.Path, err)
	}
	defer src.Close()
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("adding %q to archive: %w", entry, err)
	}
	return nil
}
