package track

import "fmt"

// Queue is the ordered list of pending tracks. It is owned by a single
// host-facing goroutine and is not safe for concurrent mutation; a run
// freezes it and works from a snapshot instead.
type Queue struct {
	items  []Item
	nextID int
	frozen bool
}

// NewQueue returns an empty queue. Ids start at 1.
func NewQueue() *Queue {
	return &Queue{nextID: 1}
}

// RestoreQueue rebuilds a queue from persisted items, preserving their ids.
// Durations are re-clamped, positions are reassigned in order, and nextID is
// raised past every restored id so ids are never reused across sessions.
func RestoreQueue(nextID int, items []Item) (*Queue, error) {
	q := &Queue{nextID: nextID}
	if q.nextID < 1 {
		q.nextID = 1
	}

	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if it.ID < 1 {
			return nil, fmt.Errorf("restore queue: illegal track id %d", it.ID)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("restore queue: duplicate track id %d", it.ID)
		}
		seen[it.ID] = true

		it.Duration = ClampDuration(it.Duration)
		it.Position = len(q.items) + 1
		q.items = append(q.items, it)

		if it.ID >= q.nextID {
			q.nextID = it.ID + 1
		}
	}
	return q, nil
}

// Add normalizes the URL, resolves the start offset, and appends a new item.
// An offset carried by the URL wins; otherwise manualOffset is parsed with
// ParseOffset and is mandatory. A duration of zero means "not requested" and
// takes the default before clamping.
func (q *Queue) Add(rawURL, manualOffset string, duration int) (Item, error) {
	if q.frozen {
		return Item{}, ErrQueueLocked
	}

	norm, err := NormalizeURL(rawURL)
	if err != nil {
		return Item{}, err
	}

	offset := norm.Offset
	if !norm.HasOffset {
		offset, err = ParseOffset(manualOffset)
		if err != nil {
			return Item{}, err
		}
	}

	if duration == 0 {
		duration = DefaultDuration
	}

	item := Item{
		ID:       q.nextID,
		RawURL:   rawURL,
		URL:      norm.Canonical,
		VideoID:  norm.VideoID,
		Offset:   offset,
		Duration: ClampDuration(duration),
		Position: len(q.items) + 1,
	}
	q.nextID++
	q.items = append(q.items, item)
	return item, nil
}

// Remove deletes the track with the given id and compacts the remaining
// positions.
func (q *Queue) Remove(id int) error {
	if q.frozen {
		return ErrQueueLocked
	}

	for i, it := range q.items {
		if it.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			q.reposition()
			return nil
		}
	}
	return fmt.Errorf("remove track %d: %w", id, ErrUnknownTrack)
}

// Clear removes every track. Ids are not reset.
func (q *Queue) Clear() error {
	if q.frozen {
		return ErrQueueLocked
	}
	q.items = nil
	return nil
}

// SetDuration updates a track's clip duration, re-applying the clamp.
func (q *Queue) SetDuration(id, seconds int) (Item, error) {
	if q.frozen {
		return Item{}, ErrQueueLocked
	}

	for i := range q.items {
		if q.items[i].ID == id {
			q.items[i].Duration = ClampDuration(seconds)
			return q.items[i], nil
		}
	}
	return Item{}, fmt.Errorf("set duration for track %d: %w", id, ErrUnknownTrack)
}

// SetLabel records the resolved title for a track. Labels are display-only
// and start empty until a run resolves them.
func (q *Queue) SetLabel(id int, label string) (Item, error) {
	if q.frozen {
		return Item{}, ErrQueueLocked
	}

	for i := range q.items {
		if q.items[i].ID == id {
			q.items[i].Label = label
			return q.items[i], nil
		}
	}
	return Item{}, fmt.Errorf("set label for track %d: %w", id, ErrUnknownTrack)
}

// Snapshot returns a copy of the queue in order. Mutating the copy or the
// queue afterwards does not affect the other.
func (q *Queue) Snapshot() []Item {
	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}

// Get returns the track with the given id.
func (q *Queue) Get(id int) (Item, bool) {
	for _, it := range q.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.items)
}

// NextID returns the next id that will be assigned, for persistence.
func (q *Queue) NextID() int {
	return q.nextID
}

// Freeze locks the queue for the duration of a run; mutating operations
// return ErrQueueLocked until Unfreeze.
func (q *Queue) Freeze() {
	q.frozen = true
}

// Unfreeze lifts the run-time lock.
func (q *Queue) Unfreeze() {
	q.frozen = false
}

func (q *Queue) reposition() {
	for i := range q.items {
		q.items[i].Position = i + 1
	}
}
