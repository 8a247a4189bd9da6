package clip

import (
	"context"
	"fmt"
)

// Every clip is encoded with the same audio profile.
const (
	AudioBitrate    = "128k"
	AudioSampleRate = 44100
)

// TrimRequest describes one cut: a window of the source encoded to mp3.
type TrimRequest struct {
	SourcePath      string
	OutputPath      string
	StartSeconds    int
	DurationSeconds int
}

// Validate checks that the trim request is well formed.
func (r *TrimRequest) Validate() error {
	if r.SourcePath == "" {
		return fmt.Errorf("source path is required")
	}
	if r.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if r.StartSeconds < 0 {
		return fmt.Errorf("start offset %d must not be negative", r.StartSeconds)
	}
	if r.DurationSeconds <= 0 {
		return fmt.Errorf("duration %d must be positive", r.DurationSeconds)
	}
	return nil
}

// Trimmer defines the interface for producing a fixed-bitrate mp3 slice from
// a source media file. This is a port that can be implemented by different
// infrastructure adapters.
type Trimmer interface {
	// Trim writes req.DurationSeconds of audio starting at req.StartSeconds
	// to req.OutputPath. Failures are classified against ErrSourceTooShort,
	// ErrCodecUnavailable, and ErrTrimIO.
	Trim(ctx context.Context, req *TrimRequest) error

	// VerifyInstalled reports whether the external tool is available,
	// returning ErrToolNotFound when it is not.
	VerifyInstalled(ctx context.Context) error
}

// FileChecker defines the interface for checking file existence
// This is used to validate fetched media before trimming
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}
