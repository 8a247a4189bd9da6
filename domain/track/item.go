package track

// Item is one queued unit of work: a video URL with a start offset and clip
// duration. The id is assigned once at add time and never reused; the
// position reflects the current queue order and is compacted after removals.
type Item struct {
	ID       int
	RawURL   string
	URL      string
	VideoID  string
	Offset   int
	Duration int
	Label    string
	Position int
}

// DisplayLabel returns the resolved title when known, falling back to the
// video identifier.
func (it Item) DisplayLabel() string {
	if it.Label != "" {
		return it.Label
	}
	return it.VideoID
}
