package round

import "github.com/pardeema/trivia-music/domain/clip"

// Observer receives progress notifications while a run executes.
// Callbacks are invoked from a single goroutine, so implementations
// do not need their own locking.
//
// This is a port that can be implemented by different infrastructure adapters.
type Observer interface {
	// ClipStarted fires when a track begins processing.
	ClipStarted(position, total int, label string)

	// ClipFinished fires when a track finishes, successfully or not.
	ClipFinished(position, total int, label string, result clip.Result)

	// RunCompleted fires once after the archive has been written.
	RunCompleted(archivePath string)

	// RunFailed fires once if the run ends without an archive.
	RunFailed(err error)
}

// NopObserver discards all notifications.
type NopObserver struct{}

func (NopObserver) ClipStarted(int, int, string) {}

func (NopObserver) ClipFinished(int, int, string, clip.Result) {}

func (NopObserver) RunCompleted(string) {}

func (NopObserver) RunFailed(error) {}

var _ Observer = NopObserver{}
