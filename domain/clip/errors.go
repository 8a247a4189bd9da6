package clip

import "errors"

// Per-item failure kinds. Each clip job classifies its failure as exactly one
// of these so the progress sink can report a human-readable reason; adapters
// wrap the underlying cause alongside the kind.
var (
	// ErrNotFound means the video does not exist or is no longer available.
	ErrNotFound = errors.New("video not found")

	// ErrNetwork covers transport failures while fetching.
	ErrNetwork = errors.New("network failure")

	// ErrRestricted means the video exists but cannot be fetched
	// (age-restricted, private, or region-locked).
	ErrRestricted = errors.New("restricted content")

	// ErrSourceTooShort means the requested window lies beyond the end of the
	// fetched media.
	ErrSourceTooShort = errors.New("source media shorter than requested clip")

	// ErrCodecUnavailable means the installed encoder cannot produce mp3.
	ErrCodecUnavailable = errors.New("mp3 codec unavailable")

	// ErrToolNotFound means the external audio tool is not installed. It is
	// surfaced once per run by the preflight check, never per job.
	ErrToolNotFound = errors.New("ffmpeg not installed")

	// ErrTrimIO covers remaining trim failures (unreadable source, unwritable
	// output).
	ErrTrimIO = errors.New("trim failed")

	// ErrCancelled marks a job stopped by cooperative cancellation.
	ErrCancelled = errors.New("cancelled")

	// ErrDuplicate marks a track whose canonical URL already appeared earlier
	// in the same run.
	ErrDuplicate = errors.New("duplicate track")
)

// Describe maps a classified failure to a short, stable message suitable for
// a progress log line. Unclassified errors fall through to their own text.
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "video not found"
	case errors.Is(err, ErrRestricted):
		return "video is restricted"
	case errors.Is(err, ErrNetwork):
		return "network failure"
	case errors.Is(err, ErrSourceTooShort):
		return "video shorter than requested clip"
	case errors.Is(err, ErrCodecUnavailable):
		return "mp3 codec unavailable"
	case errors.Is(err, ErrToolNotFound):
		return "ffmpeg not installed"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrDuplicate):
		return "duplicate of an earlier track"
	case errors.Is(err, ErrTrimIO):
		return "trim failed"
	case err == nil:
		return "ok"
	default:
		return err.Error()
	}
}
