package round

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pardeema/trivia-music/domain/clip"
	"github.com/pardeema/trivia-music/domain/track"
)

// fetchMargin widens the download window on both sides so the trim always has
// audio to cut even when the fetcher lands on a nearby keyframe.
const fetchMargin = 2

// Job turns one queued track into a trimmed mp3 clip. It never returns an
// error: every outcome, including cancellation, is carried in the Result.
type Job struct {
	fetcher clip.Fetcher
	trimmer clip.Trimmer
	checker clip.FileChecker
}

// NewJob creates a clip job with the given adapters.
func NewJob(fetcher clip.Fetcher, trimmer clip.Trimmer, checker clip.FileChecker) *Job {
	return &Job{
		fetcher: fetcher,
		trimmer: trimmer,
		checker: checker,
	}
}

var _ ClipRunner = (*Job)(nil)

// Run fetches the source media for item into a scratch directory under
// workdir, trims the clip window to workdir/clip-NN.mp3, and derives the
// archive filename. Cancellation is checked between steps; a cancelled job
// reports ErrCancelled and leaves no partial output behind.
func (j *Job) Run(ctx context.Context, item track.Item, workdir string) clip.Result {
	started := time.Now()
	res := clip.Result{ItemID: item.ID, Position: item.Position}

	finish := func(err error) clip.Result {
		res.Err = err
		res.Elapsed = time.Since(started)
		return res
	}

	if ctx.Err() != nil {
		return finish(clip.ErrCancelled)
	}

	destDir := filepath.Join(workdir, fmt.Sprintf("item-%02d", item.Position))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return finish(fmt.Errorf("%w: creating download dir: %v", clip.ErrTrimIO, err))
	}
	defer os.RemoveAll(destDir)

	windowStart := max(0, item.Offset-fetchMargin)
	window := &clip.FetchWindow{
		StartSeconds:    windowStart,
		DurationSeconds: (item.Offset - windowStart) + item.Duration + fetchMargin,
	}

	fres, err := j.fetcher.Fetch(ctx, clip.FetchRequest{
		URL:     item.URL,
		DestDir: destDir,
		Window:  window,
	})
	if err != nil {
		if ctx.Err() != nil {
			return finish(clip.ErrCancelled)
		}
		return finish(err)
	}
	res.Title = fres.Title

	if ctx.Err() != nil {
		return finish(clip.ErrCancelled)
	}

	outPath := filepath.Join(workdir, fmt.Sprintf("clip-%02d.mp3", item.Position))
	req := &clip.TrimRequest{
		SourcePath:      fres.Path,
		OutputPath:      outPath,
		StartSeconds:    item.Offset - fres.StartsAt,
		DurationSeconds: item.Duration,
	}
	if err := j.trimmer.Trim(ctx, req); err != nil {
		if j.checker.Exists(outPath) {
			os.Remove(outPath)
		}
		if ctx.Err() != nil {
			return finish(clip.ErrCancelled)
		}
		return finish(err)
	}

	res.Path = outPath
	res.Filename = clip.Filename(fres.Title, item.VideoID)
	return finish(nil)
}
