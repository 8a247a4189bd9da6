package round

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pardeema/trivia-music/domain/clip"
	"github.com/pardeema/trivia-music/domain/track"
)

// DefaultParallelism is the number of clips processed concurrently when the
// caller does not choose a pool size.
const DefaultParallelism = 3

var (
	// ErrEmptyQueue is returned when a run is started with no tracks queued.
	ErrEmptyQueue = errors.New("no tracks queued")

	// ErrRunActive is returned when a run is started while another is in flight.
	ErrRunActive = errors.New("a run is already in progress")
)

// ClipRunner processes one track into a clip Result.
type ClipRunner interface {
	Run(ctx context.Context, item track.Item, workdir string) clip.Result
}

// Runner executes a queue snapshot through a bounded worker pool. At most one
// run may be in flight per Runner at a time.
type Runner struct {
	job         ClipRunner
	parallelism int

	mu     sync.Mutex
	active bool
}

// NewRunner creates a runner that processes up to parallelism clips at once.
func NewRunner(job ClipRunner, parallelism int) *Runner {
	if parallelism < 1 {
		parallelism = DefaultParallelism
	}
	return &Runner{job: job, parallelism: parallelism}
}

type eventKind int

const (
	eventStarted eventKind = iota
	eventFinished
)

// progressEvent is emitted by workers and the feeder; a single collector
// goroutine drains them so the Observer never needs its own locking.
type progressEvent struct {
	kind   eventKind
	item   track.Item
	result clip.Result
}

// Run is a handle on an in-flight run.
type Run struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	status  Status
	results []clip.Result
}

// Cancel requests cooperative cancellation. In-flight clips stop at their
// next checkpoint; undispatched tracks are reported as cancelled. Safe to
// call more than once.
func (r *Run) Cancel() {
	r.mu.Lock()
	if r.status == StatusRunning {
		r.status = StatusCancelling
	}
	r.mu.Unlock()
	r.cancel()
}

// Wait blocks until every track has a result and returns them in queue order.
func (r *Run) Wait() []clip.Result {
	<-r.done
	return r.Results()
}

// State returns the run's current lifecycle state.
func (r *Run) State() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Results returns a copy of the results recorded so far, indexed by queue
// position. Slots for tracks that have not finished are zero values.
func (r *Run) Results() []clip.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]clip.Result, len(r.results))
	copy(out, r.results)
	return out
}

// Start launches a run over items, which must be a position-compacted queue
// snapshot. It returns immediately; progress is reported through obs and the
// returned handle. Exactly one Result is produced per item, in every case.
func (r *Runner) Start(ctx context.Context, items []track.Item, workdir string, obs Observer) (*Run, error) {
	if len(items) == 0 {
		return nil, ErrEmptyQueue
	}

	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return nil, ErrRunActive
	}
	r.active = true
	r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	run := &Run{
		cancel:  cancel,
		done:    make(chan struct{}),
		status:  StatusRunning,
		results: make([]clip.Result, len(items)),
	}

	go r.execute(runCtx, run, items, workdir, obs)
	return run, nil
}

func (r *Runner) execute(ctx context.Context, run *Run, items []track.Item, workdir string, obs Observer) {
	total := len(items)
	jobs := make(chan track.Item)
	// Each item yields at most two events, so with this buffer producers
	// never block on the collector.
	events := make(chan progressEvent, 2*total)

	var producers sync.WaitGroup

	for range min(r.parallelism, total) {
		producers.Add(1)
		go func() {
			defer producers.Done()
			for item := range jobs {
				events <- progressEvent{kind: eventStarted, item: item}
				result := r.job.Run(ctx, item, workdir)
				events <- progressEvent{kind: eventFinished, item: item, result: result}
			}
		}()
	}

	// The feeder dispatches in queue order. Repeated videos are skipped
	// without dispatch, and once the context ends the rest of the queue is
	// drained as cancelled.
	var dispatched int
	producers.Add(1)
	go func() {
		defer producers.Done()
		defer close(jobs)

		seen := make(map[string]int, total)
		for _, item := range items {
			if ctx.Err() != nil {
				events <- cancelledEvent(item)
				continue
			}
			if first, dup := seen[item.VideoID]; dup {
				events <- progressEvent{
					kind: eventFinished,
					item: item,
					result: clip.Result{
						ItemID:   item.ID,
						Position: item.Position,
						Err:      fmt.Errorf("%w: same video as item %d", clip.ErrDuplicate, first),
					},
				}
				continue
			}
			seen[item.VideoID] = item.Position

			select {
			case jobs <- item:
				dispatched++
			case <-ctx.Done():
				events <- cancelledEvent(item)
			}
		}
	}()

	go func() {
		producers.Wait()
		close(events)
	}()

	// Single collector: records results by position and drives the observer.
	for ev := range events {
		switch ev.kind {
		case eventStarted:
			obs.ClipStarted(ev.item.Position, total, ev.item.DisplayLabel())
		case eventFinished:
			run.mu.Lock()
			run.results[ev.item.Position-1] = ev.result
			run.mu.Unlock()
			obs.ClipFinished(ev.item.Position, total, ev.item.DisplayLabel(), ev.result)
		}
	}

	// The events channel closes only after the feeder is done, so reading
	// the dispatch count here is safe.
	status := StatusCompleted
	if dispatched == 0 {
		status = StatusFailed
	}

	// Release the runner before signalling completion, so a caller that
	// waited can start the next run immediately.
	r.mu.Lock()
	r.active = false
	r.mu.Unlock()

	run.mu.Lock()
	run.status = status
	run.mu.Unlock()
	close(run.done)
}

func cancelledEvent(item track.Item) progressEvent {
	return progressEvent{
		kind: eventFinished,
		item: item,
		result: clip.Result{
			ItemID:   item.ID,
			Position: item.Position,
			Err:      clip.ErrCancelled,
		},
	}
}
