package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pardeema/trivia-music/domain/clip"
	"github.com/pardeema/trivia-music/infrastructure/logging"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command, folding captured stderr into the returned error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// lastLine returns the final non-empty line of command output, where ffmpeg
// puts its actual error message.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// Trimmer implements clip.Trimmer using ffmpeg
type Trimmer struct {
	ffmpegPath string
	runner     CommandRunner
}

// TrimmerOption is a functional option for configuring Trimmer
type TrimmerOption func(*Trimmer)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) TrimmerOption {
	return func(t *Trimmer) {
		if path != "" {
			t.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) TrimmerOption {
	return func(t *Trimmer) {
		t.runner = runner
	}
}

// NewTrimmer creates a new FFmpeg-based trimmer
func NewTrimmer(opts ...TrimmerOption) *Trimmer {
	t := &Trimmer{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Trim implements clip.Trimmer. It re-encodes the requested window to mp3 at
// the fixed clip bitrate and sample rate, classifying failures against the
// clip error kinds.
func (t *Trimmer) Trim(ctx context.Context, req *clip.TrimRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	args := []string{
		"-i", req.SourcePath,
		"-ss", strconv.Itoa(req.StartSeconds),
		"-t", strconv.Itoa(req.DurationSeconds),
		"-vn",                   // No video
		"-acodec", "libmp3lame", // MP3 codec
		"-b:a", clip.AudioBitrate,
		"-ar", strconv.Itoa(clip.AudioSampleRate),
		"-y", // Overwrite output file if it exists
		req.OutputPath,
	}

	logger := logging.Component("ffmpeg")
	logger.Debug().Str("source", req.SourcePath).Int("start", req.StartSeconds).
		Int("duration", req.DurationSeconds).Msg("trimming clip")

	if err := t.runner.Run(ctx, t.ffmpegPath, args...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return classifyTrimFailure(err)
	}

	// A start offset beyond the end of the source makes ffmpeg exit cleanly
	// with an empty output file.
	info, err := os.Stat(req.OutputPath)
	if err != nil || info.Size() == 0 {
		os.Remove(req.OutputPath)
		return fmt.Errorf("%w: no audio at offset %ds", clip.ErrSourceTooShort, req.StartSeconds)
	}

	return nil
}

// classifyTrimFailure maps ffmpeg error output to a clip failure kind.
func classifyTrimFailure(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unknown encoder") || strings.Contains(msg, "encoder not found") {
		return fmt.Errorf("%w: %v", clip.ErrCodecUnavailable, err)
	}
	return fmt.Errorf("%w: %v", clip.ErrTrimIO, err)
}

// VerifyInstalled checks that ffmpeg is available
func (t *Trimmer) VerifyInstalled(ctx context.Context) error {
	_, err := t.runner.Output(ctx, t.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("%w: %q not found or not executable", clip.ErrToolNotFound, t.ffmpegPath)
	}
	return nil
}

// Ensure Trimmer implements clip.Trimmer
var _ clip.Trimmer = (*Trimmer)(nil)
