package clip

import "time"

// Result is the outcome of one clip job. Exactly one Result is produced per
// queued track per run; failures are carried in Err, never raised.
type Result struct {
	ItemID   int
	Position int
	Title    string
	Path     string // local mp3 path, empty on failure
	Filename string // derived archive filename, empty on failure
	Err      error  // nil on success, a classified failure otherwise
	Elapsed  time.Duration
}

// Succeeded reports whether the job produced a clip.
func (r Result) Succeeded() bool {
	return r.Err == nil
}
