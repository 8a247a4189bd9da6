package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pardeema/trivia-music/application/archive"
	appdist "github.com/pardeema/trivia-music/application/distribution"
	"github.com/pardeema/trivia-music/application/round"
	"github.com/pardeema/trivia-music/domain/clip"
	"github.com/pardeema/trivia-music/domain/track"
	"github.com/pardeema/trivia-music/infrastructure/config"
	"github.com/pardeema/trivia-music/infrastructure/drive"
	"github.com/pardeema/trivia-music/infrastructure/ffmpeg"
	"github.com/pardeema/trivia-music/infrastructure/filesystem"
	"github.com/pardeema/trivia-music/infrastructure/ytdlp"

	"github.com/spf13/cobra"
)

var (
	processOutputDir   string
	processParallel    int
	processTimeout     int
	processKeepTracks  bool
	processKeepWorkDir bool
	processUpload      bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Turn the queued tracks into a round archive",
	Long: `Process every queued track through the complete pipeline:
1. Verify ffmpeg is installed
2. Fetch and trim each track to a short mp3 clip, a few at a time
3. Pack the successful clips into a numbered zip archive
4. Optionally upload the archive to Google Drive

Tracks that produced a clip leave the queue; failed tracks stay queued
for the next attempt. Use --keep to keep everything.

Press Ctrl-C once for a graceful stop that still archives the finished
clips; press it again to exit immediately.

Example:
  trivia-music process
  trivia-music process --output rounds --parallel 2 --upload`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVar(&processOutputDir, "output", "", "Archive output directory (default from config)")
	processCmd.Flags().IntVar(&processParallel, "parallel", 0, "Concurrent clip jobs (default from config)")
	processCmd.Flags().IntVar(&processTimeout, "timeout", 0, "Whole-run timeout in minutes (default from config)")
	processCmd.Flags().BoolVar(&processKeepTracks, "keep", false, "Keep archived tracks queued after the run")
	processCmd.Flags().BoolVar(&processKeepWorkDir, "keep-workdir", false, "Keep the scratch directory for inspection")
	processCmd.Flags().BoolVar(&processUpload, "upload", false, "Upload the archive to Google Drive and print the share link")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration could not be loaded; check %s", cfgFile)
	}

	queue, err := config.LoadQueue(cfg.Paths.TracksFile)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	// Production adapters
	fetcher := ytdlp.NewFetcher()
	trimmer := ffmpeg.NewTrimmer(ffmpeg.WithFFmpegPath(cfg.Paths.FFmpegPath))
	checker := filesystem.NewChecker()
	workspace := filesystem.NewWorkspace(cfg.Paths.WorkDirectory)
	assembler := archive.NewAssembler()

	// The uploader stays nil when Drive is unconfigured; the service turns
	// --upload without an uploader into a setup hint.
	var uploader round.ArchiveUploader
	if processUpload && cfg.Drive.FolderID != "" && cfg.Drive.CredentialsFile != "" {
		client, err := drive.NewClientWithOAuth(ctx, cfg.Drive.CredentialsFile, cfg.Drive.TokenFile)
		if err != nil {
			return fmt.Errorf("failed to create Google Drive client: %w", err)
		}
		uploader = appdist.NewUploadService(client, cfg.Drive.FolderID, os.Stdout)
	}

	outputDir := processOutputDir
	if outputDir == "" {
		outputDir = cfg.Paths.OutputDirectory
	}
	parallelism := processParallel
	if parallelism == 0 {
		parallelism = cfg.Processing.Parallelism
	}
	timeoutMinutes := processTimeout
	if timeoutMinutes == 0 {
		timeoutMinutes = cfg.Processing.TimeoutMinutes
	}

	input := round.Input{
		OutputDir:      outputDir,
		Parallelism:    parallelism,
		TimeoutMinutes: timeoutMinutes,
		KeepWorkDir:    processKeepWorkDir,
		Upload:         processUpload,
	}

	return RunProcessWithDependencies(
		ctx,
		queue,
		cfg.Paths.TracksFile,
		fetcher,
		trimmer,
		checker,
		workspace,
		assembler,
		uploader,
		input,
		processKeepTracks,
		os.Stdout,
	)
}

// RunProcessWithDependencies runs the process command with injected dependencies (for testing)
func RunProcessWithDependencies(
	ctx context.Context,
	queue *track.Queue,
	tracksPath string,
	fetcher clip.Fetcher,
	trimmer clip.Trimmer,
	checker clip.FileChecker,
	workspace round.RunWorkspace,
	assembler round.Archiver,
	uploader round.ArchiveUploader,
	input round.Input,
	keepTracks bool,
	output io.Writer,
) error {
	job := round.NewJob(fetcher, trimmer, checker)
	service := round.NewService(queue, job, trimmer, workspace, assembler, uploader, newConsoleObserver(output), output)

	res, err := service.Process(ctx, input)
	if err != nil {
		return err
	}

	updateQueueAfterRun(queue, res, keepTracks)
	if err := config.SaveQueue(queue, tracksPath); err != nil {
		return fmt.Errorf("archive written but the queue could not be saved: %w", err)
	}
	return nil
}

// updateQueueAfterRun drops archived tracks from the queue (none when keep is
// set) and writes resolved titles back onto whatever remains, so a later
// 'list' shows them.
func updateQueueAfterRun(queue *track.Queue, res *round.Result, keep bool) {
	for _, r := range res.Results {
		if r.Title != "" {
			queue.SetLabel(r.ItemID, r.Title)
		}
		if !keep && r.Succeeded() {
			queue.Remove(r.ItemID)
		}
	}
}

// signalContext cancels the returned context on the first interrupt and exits
// the process on the second, so a hung fetch can always be escaped.
func signalContext(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigs:
			fmt.Fprintln(os.Stderr, "\nStopping... finishing clips in flight (Ctrl-C again to exit now)")
			cancel()
		case <-ctx.Done():
			return
		}
		<-sigs
		os.Exit(130)
	}()

	return ctx, func() {
		signal.Stop(sigs)
		cancel()
	}
}

// consoleObserver prints one line per clip event as the pool reports them.
type consoleObserver struct {
	out io.Writer
}

func newConsoleObserver(out io.Writer) *consoleObserver {
	return &consoleObserver{out: out}
}

func (o *consoleObserver) ClipStarted(position, total int, label string) {
	fmt.Fprintf(o.out, "      [%d/%d] %s...\n", position, total, label)
}

func (o *consoleObserver) ClipFinished(position, total int, label string, result clip.Result) {
	if result.Title != "" {
		label = result.Title
	}
	if result.Succeeded() {
		fmt.Fprintf(o.out, "      [%d/%d] %s done (%.1fs)\n", position, total, label, result.Elapsed.Seconds())
		return
	}
	fmt.Fprintf(o.out, "      [%d/%d] %s failed: %s\n", position, total, label, clip.Describe(result.Err))
}

func (o *consoleObserver) RunCompleted(string) {}

func (o *consoleObserver) RunFailed(error) {}

var _ round.Observer = (*consoleObserver)(nil)
