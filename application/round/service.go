package round

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/pardeema/trivia-music/application/archive"
	"github.com/pardeema/trivia-music/domain/clip"
	"github.com/pardeema/trivia-music/domain/distribution"
	"github.com/pardeema/trivia-music/domain/track"
)

// RunWorkspace manages the per-run scratch directory
type RunWorkspace interface {
	CreateRunDir() (string, error)
	RemoveRunDir(dir string) error
}

// Archiver folds successful results into a distributable archive
type Archiver interface {
	Assemble(results []clip.Result, outputDir string) (string, error)
}

// ArchiveUploader pushes a finished archive to shared storage
type ArchiveUploader interface {
	UploadArchive(ctx context.Context, path string) (*distribution.UploadResult, error)
}

// Service orchestrates a complete processing run: preflight, the worker pool,
// archive assembly, and optional upload.
type Service struct {
	queue     *track.Queue
	job       ClipRunner
	trimmer   clip.Trimmer
	workspace RunWorkspace
	assembler Archiver
	uploader  ArchiveUploader
	observer  Observer
	output    io.Writer
}

// NewService creates a new round processing service. uploader may be nil when
// no remote storage is configured; observer and output may be nil.
func NewService(
	queue *track.Queue,
	job ClipRunner,
	trimmer clip.Trimmer,
	workspace RunWorkspace,
	assembler Archiver,
	uploader ArchiveUploader,
	observer Observer,
	output io.Writer,
) *Service {
	if observer == nil {
		observer = NopObserver{}
	}
	if output == nil {
		output = io.Discard
	}
	return &Service{
		queue:     queue,
		job:       job,
		trimmer:   trimmer,
		workspace: workspace,
		assembler: assembler,
		uploader:  uploader,
		observer:  observer,
		output:    output,
	}
}

// Input contains all input parameters for the process command
type Input struct {
	OutputDir      string // Directory the archive is written to
	Parallelism    int    // Concurrent clip jobs (default 3)
	TimeoutMinutes int    // Whole-run deadline, 0 disables it
	KeepWorkDir    bool   // Keep the scratch directory for inspection
	Upload         bool   // Upload the archive to Drive after assembly
}

// Result contains the results of a processing run
type Result struct {
	ArchivePath string
	UploadURL   string
	Succeeded   int
	Failed      int
	Cancelled   bool
	Status      Status
	Elapsed     time.Duration
	Results     []clip.Result
}

// ValidationError contains details about a validation failure with suggestions
type ValidationError struct {
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s\n\nTo fix this, run:\n  %s", e.Message, e.Suggestion)
	}
	return e.Message
}

// Process runs the complete queue end to end and returns the run summary.
// The queue is frozen for the duration of the run.
func (s *Service) Process(ctx context.Context, input Input) (*Result, error) {
	startTime := time.Now()

	snapshot := s.queue.Snapshot()
	if len(snapshot) == 0 {
		return nil, &ValidationError{
			Message:    "no tracks queued",
			Suggestion: "trivia-music add <url>",
		}
	}
	if input.Upload && s.uploader == nil {
		return nil, &ValidationError{
			Message:    "Google Drive is not configured",
			Suggestion: "trivia-music setup",
		}
	}

	parallelism := input.Parallelism
	if parallelism < 1 {
		parallelism = DefaultParallelism
	}
	totalSteps := 3
	if input.Upload {
		totalSteps = 4
	}

	fmt.Fprintf(s.output, "Tracks queued: %d\n", len(snapshot))
	fmt.Fprintf(s.output, "Parallelism: %d\n", parallelism)
	fmt.Fprintf(s.output, "Output: %s\n", input.OutputDir)
	fmt.Fprintln(s.output)

	// Step 1: Verify external tools before any work is dispatched
	fmt.Fprintf(s.output, "[1/%d] Checking tools...\n", totalSteps)
	if err := s.trimmer.VerifyInstalled(ctx); err != nil {
		s.observer.RunFailed(err)
		return nil, &ValidationError{
			Message:    "ffmpeg is not installed or not on PATH",
			Suggestion: "brew install ffmpeg (macOS) or apt install ffmpeg (Debian/Ubuntu)",
		}
	}
	fmt.Fprintf(s.output, "      ffmpeg OK\n\n")

	// Step 2: Run the clip pool over a frozen queue
	fmt.Fprintf(s.output, "[2/%d] Processing %d tracks...\n", totalSteps, len(snapshot))

	workdir, err := s.workspace.CreateRunDir()
	if err != nil {
		s.observer.RunFailed(err)
		return nil, fmt.Errorf("creating work directory: %w", err)
	}
	if !input.KeepWorkDir {
		defer s.workspace.RemoveRunDir(workdir)
	}

	s.queue.Freeze()
	defer s.queue.Unfreeze()

	runCtx := ctx
	cancelTimeout := func() {}
	if input.TimeoutMinutes > 0 {
		runCtx, cancelTimeout = context.WithTimeout(ctx, time.Duration(input.TimeoutMinutes)*time.Minute)
	}
	defer cancelTimeout()

	runner := NewRunner(s.job, parallelism)
	run, err := runner.Start(runCtx, snapshot, workdir, s.observer)
	if err != nil {
		s.observer.RunFailed(err)
		return nil, err
	}

	// Flip the run to Cancelling as soon as the context ends, so in-flight
	// jobs stop at their next checkpoint.
	waitDone := make(chan struct{})
	go func() {
		select {
		case <-runCtx.Done():
			run.Cancel()
		case <-waitDone:
		}
	}()
	results := run.Wait()
	close(waitDone)

	res := &Result{
		Status:    run.State(),
		Cancelled: runCtx.Err() != nil,
		Results:   results,
	}
	for _, r := range results {
		if r.Succeeded() {
			res.Succeeded++
		} else {
			res.Failed++
		}
	}

	fmt.Fprintf(s.output, "      %d of %d clips ready\n", res.Succeeded, len(results))
	for _, r := range results {
		if !r.Succeeded() {
			fmt.Fprintf(s.output, "      Failed: %s (%s)\n", snapshot[r.Position-1].DisplayLabel(), clip.Describe(r.Err))
		}
	}
	fmt.Fprintln(s.output)

	// Step 3: Fold the successes into the archive; a cancelled run still
	// archives whatever finished before the stop
	fmt.Fprintf(s.output, "[3/%d] Creating archive...\n", totalSteps)
	archivePath, err := s.assembler.Assemble(results, input.OutputDir)
	if err != nil {
		if errors.Is(err, archive.ErrNoSuccessfulTracks) && res.Cancelled {
			err = fmt.Errorf("run cancelled before any clip completed: %w", err)
		}
		s.observer.RunFailed(err)
		return nil, err
	}
	res.ArchivePath = archivePath
	fmt.Fprintf(s.output, "      Created: %s\n\n", archivePath)
	s.observer.RunCompleted(archivePath)

	// Step 4: Optional upload to Drive
	if input.Upload {
		fmt.Fprintf(s.output, "[4/%d] Uploading archive...\n", totalSteps)
		uploadResult, err := s.uploader.UploadArchive(ctx, archivePath)
		if err != nil {
			return nil, fmt.Errorf("upload failed (archive kept at %s): %w", archivePath, err)
		}
		res.UploadURL = uploadResult.ShareableURL
		fmt.Fprintf(s.output, "      Uploaded: %s\n", filepath.Base(archivePath))
		fmt.Fprintf(s.output, "      Link: %s\n\n", uploadResult.ShareableURL)
	}

	if input.KeepWorkDir {
		fmt.Fprintf(s.output, "Workdir kept: %s\n", workdir)
	}
	if res.Cancelled {
		fmt.Fprintf(s.output, "Run cancelled: %d of %d clips finished before the stop\n", res.Succeeded, len(results))
	}

	res.Elapsed = time.Since(startTime)
	fmt.Fprintf(s.output, "Done! Completed in %s\n", formatDuration(res.Elapsed))
	return res, nil
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	sec := (d % time.Minute) / time.Second
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
