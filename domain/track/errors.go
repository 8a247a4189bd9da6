package track

import (
	"errors"
	"fmt"
)

// ErrQueueLocked is returned when a mutating operation is attempted while a
// processing run holds the queue frozen.
var ErrQueueLocked = errors.New("queue is locked by an active run")

// ErrUnknownTrack is returned when an operation references a track id that is
// not in the queue.
var ErrUnknownTrack = errors.New("unknown track id")

// InputError reports manual timestamp text that could not be parsed.
type InputError struct {
	Input  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: %s", e.Input, e.Reason)
}

// URLError reports a URL that does not match a recognized YouTube shape.
type URLError struct {
	URL    string
	Reason string
}

func (e *URLError) Error() string {
	return fmt.Sprintf("invalid video url %q: %s", e.URL, e.Reason)
}
