package round

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pardeema/trivia-music/application/archive"
	"github.com/pardeema/trivia-music/domain/clip"
	"github.com/pardeema/trivia-music/domain/distribution"
	"github.com/pardeema/trivia-music/domain/track"
)

// --- Mock implementations for testing ---

type mockVerifyTrimmer struct {
	verifyErr error
}

func (m *mockVerifyTrimmer) Trim(ctx context.Context, req *clip.TrimRequest) error { return nil }
func (m *mockVerifyTrimmer) VerifyInstalled(ctx context.Context) error             { return m.verifyErr }

type mockWorkspace struct {
	dir       string
	createErr error
	removed   []string
}

func (m *mockWorkspace) CreateRunDir() (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	return m.dir, nil
}

func (m *mockWorkspace) RemoveRunDir(dir string) error {
	m.removed = append(m.removed, dir)
	return nil
}

type mockArchiver struct {
	path string
	err  error

	gotResults []clip.Result
	gotDir     string
}

func (m *mockArchiver) Assemble(results []clip.Result, outputDir string) (string, error) {
	m.gotResults = results
	m.gotDir = outputDir
	if m.err != nil {
		return "", m.err
	}
	return m.path, nil
}

type mockUploader struct {
	url string
	err error

	gotPath string
}

func (m *mockUploader) UploadArchive(ctx context.Context, path string) (*distribution.UploadResult, error) {
	m.gotPath = path
	if m.err != nil {
		return nil, m.err
	}
	return &distribution.UploadResult{
		FileID:       "archive-file-id",
		FileName:     "round.zip",
		ShareableURL: m.url,
		Size:         2048,
	}, nil
}

// failingJob fails the configured positions and succeeds everywhere else.
type failingJob struct {
	failAt map[int]error
}

func (j *failingJob) Run(ctx context.Context, item track.Item, workdir string) clip.Result {
	if err, ok := j.failAt[item.Position]; ok {
		return clip.Result{ItemID: item.ID, Position: item.Position, Err: err}
	}
	return clip.Result{
		ItemID:   item.ID,
		Position: item.Position,
		Title:    item.VideoID,
		Path:     workdir + "/clip.mp3",
		Filename: item.VideoID + ".mp3",
	}
}

// --- Helper functions ---

func testQueue(t *testing.T, n int) *track.Queue {
	t.Helper()
	q := track.NewQueue()
	urls := []string{
		"https://youtu.be/aaaaaaaaaaa?t=30",
		"https://youtu.be/bbbbbbbbbbb?t=45",
		"https://youtu.be/ccccccccccc?t=60",
		"https://youtu.be/ddddddddddd?t=75",
	}
	for i := 0; i < n; i++ {
		if _, err := q.Add(urls[i], "", 0); err != nil {
			t.Fatalf("seeding queue: %v", err)
		}
	}
	return q
}

type serviceFixture struct {
	queue     *track.Queue
	job       ClipRunner
	trimmer   *mockVerifyTrimmer
	workspace *mockWorkspace
	archiver  *mockArchiver
	uploader  *mockUploader
	observer  *recordingObserver
	out       *bytes.Buffer
}

func newServiceFixture(t *testing.T, n int) *serviceFixture {
	return &serviceFixture{
		queue:     testQueue(t, n),
		job:       &failingJob{},
		trimmer:   &mockVerifyTrimmer{},
		workspace: &mockWorkspace{dir: "/tmp/music_rounds_test"},
		archiver:  &mockArchiver{path: "/out/music_rounds_20250101_120000.zip"},
		uploader:  &mockUploader{url: "https://drive.google.com/file/d/archive-file-id/view?usp=sharing"},
		observer:  newRecordingObserver(),
		out:       &bytes.Buffer{},
	}
}

func (f *serviceFixture) service() *Service {
	return NewService(f.queue, f.job, f.trimmer, f.workspace, f.archiver, f.uploader, f.observer, f.out)
}

// --- Tests ---

func TestProcess_EmptyQueue(t *testing.T) {
	f := newServiceFixture(t, 0)
	_, err := f.service().Process(context.Background(), Input{OutputDir: "out"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Message, "no tracks queued") {
		t.Errorf("unexpected message: %q", verr.Message)
	}
}

func TestProcess_PreflightFailureAbortsBeforeAnyWork(t *testing.T) {
	f := newServiceFixture(t, 2)
	f.trimmer.verifyErr = clip.ErrToolNotFound

	_, err := f.service().Process(context.Background(), Input{OutputDir: "out"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Message, "ffmpeg") {
		t.Errorf("expected the message to name ffmpeg, got %q", verr.Message)
	}
	if f.observer.failed == nil {
		t.Error("expected a terminal RunFailed event")
	}
	if f.archiver.gotResults != nil {
		t.Error("expected no assembly after a failed preflight")
	}
}

func TestProcess_HappyPath(t *testing.T) {
	f := newServiceFixture(t, 3)

	res, err := f.service().Process(context.Background(), Input{OutputDir: "rounds", TimeoutMinutes: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Succeeded != 3 || res.Failed != 0 {
		t.Errorf("expected 3 successes, got %d successes and %d failures", res.Succeeded, res.Failed)
	}
	if res.ArchivePath != f.archiver.path {
		t.Errorf("archive path = %q, want %q", res.ArchivePath, f.archiver.path)
	}
	if res.Status != StatusCompleted {
		t.Errorf("status = %v, want %v", res.Status, StatusCompleted)
	}
	if f.archiver.gotDir != "rounds" {
		t.Errorf("assembler output dir = %q, want %q", f.archiver.gotDir, "rounds")
	}
	if len(f.archiver.gotResults) != 3 {
		t.Fatalf("expected 3 results passed to the assembler, got %d", len(f.archiver.gotResults))
	}
	for i, r := range f.archiver.gotResults {
		if r.Position != i+1 {
			t.Errorf("assembler results out of order at %d: position %d", i, r.Position)
		}
	}
	if f.observer.completedPath != f.archiver.path {
		t.Errorf("expected RunCompleted with %q, got %q", f.archiver.path, f.observer.completedPath)
	}
	if len(f.workspace.removed) != 1 {
		t.Errorf("expected the work directory to be removed once, got %v", f.workspace.removed)
	}

	out := f.out.String()
	for _, want := range []string{"[1/3] Checking tools", "[2/3] Processing 3 tracks", "[3/3] Creating archive", "Created: ", "Done! Completed in"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProcess_PartialFailureStillArchives(t *testing.T) {
	f := newServiceFixture(t, 3)
	f.job = &failingJob{failAt: map[int]error{2: clip.ErrNotFound}}

	res, err := f.service().Process(context.Background(), Input{OutputDir: "rounds"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Succeeded != 2 || res.Failed != 1 {
		t.Errorf("expected 2 successes and 1 failure, got %d and %d", res.Succeeded, res.Failed)
	}
	if !strings.Contains(f.out.String(), "video not found") {
		t.Errorf("expected the failure reason in the output:\n%s", f.out.String())
	}
}

func TestProcess_NoSuccessfulTracks(t *testing.T) {
	f := newServiceFixture(t, 2)
	f.job = &failingJob{failAt: map[int]error{1: clip.ErrNetwork, 2: clip.ErrNetwork}}
	f.archiver.err = archive.ErrNoSuccessfulTracks

	_, err := f.service().Process(context.Background(), Input{OutputDir: "rounds"})

	if !errors.Is(err, archive.ErrNoSuccessfulTracks) {
		t.Fatalf("expected ErrNoSuccessfulTracks, got %v", err)
	}
	if !errors.Is(f.observer.failed, archive.ErrNoSuccessfulTracks) {
		t.Errorf("expected a terminal RunFailed event carrying the error, got %v", f.observer.failed)
	}
}

func TestProcess_QueueFrozenDuringRun(t *testing.T) {
	f := newServiceFixture(t, 1)
	probe := &freezeProbeJob{queue: f.queue}
	f.job = probe

	if _, err := f.service().Process(context.Background(), Input{OutputDir: "rounds"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !errors.Is(probe.addErr, track.ErrQueueLocked) {
		t.Errorf("expected mutations during the run to be rejected, got %v", probe.addErr)
	}

	// The lock is lifted once the run is over.
	if _, err := f.queue.Add("https://youtu.be/eeeeeeeeeee?t=5", "", 0); err != nil {
		t.Errorf("expected the queue to accept tracks after the run, got %v", err)
	}
}

// freezeProbeJob tries to mutate the queue mid-run.
type freezeProbeJob struct {
	queue  *track.Queue
	addErr error
}

func (j *freezeProbeJob) Run(ctx context.Context, item track.Item, workdir string) clip.Result {
	_, j.addErr = j.queue.Add("https://youtu.be/fffffffffff?t=9", "", 0)
	return clip.Result{ItemID: item.ID, Position: item.Position, Title: "T", Path: "p", Filename: "f.mp3"}
}

func TestProcess_KeepWorkDir(t *testing.T) {
	f := newServiceFixture(t, 1)

	_, err := f.service().Process(context.Background(), Input{OutputDir: "rounds", KeepWorkDir: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.workspace.removed) != 0 {
		t.Errorf("expected the work directory to be kept, got removals: %v", f.workspace.removed)
	}
	if !strings.Contains(f.out.String(), "Workdir kept: ") {
		t.Errorf("expected the kept workdir to be reported:\n%s", f.out.String())
	}
}

func TestProcess_Upload(t *testing.T) {
	f := newServiceFixture(t, 1)

	res, err := f.service().Process(context.Background(), Input{OutputDir: "rounds", Upload: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.uploader.gotPath != f.archiver.path {
		t.Errorf("uploaded %q, want %q", f.uploader.gotPath, f.archiver.path)
	}
	if res.UploadURL == "" {
		t.Error("expected a shareable URL on the result")
	}
	if !strings.Contains(f.out.String(), "[4/4] Uploading archive") {
		t.Errorf("expected the upload step in the output:\n%s", f.out.String())
	}
}

func TestProcess_UploadWithoutDriveConfigured(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.uploader = nil

	svc := NewService(f.queue, f.job, f.trimmer, f.workspace, f.archiver, nil, f.observer, f.out)
	_, err := svc.Process(context.Background(), Input{OutputDir: "rounds", Upload: true})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Suggestion, "setup") {
		t.Errorf("expected the suggestion to point at setup, got %q", verr.Suggestion)
	}
}

func TestProcess_UploadFailureKeepsArchive(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.uploader.err = errors.New("quota exceeded")

	_, err := f.service().Process(context.Background(), Input{OutputDir: "rounds", Upload: true})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "archive kept at") {
		t.Errorf("expected the error to point at the local archive, got %v", err)
	}
	// The archive itself was produced, so the terminal event is completion.
	if f.observer.completedPath != f.archiver.path {
		t.Errorf("expected RunCompleted before the upload, got %q", f.observer.completedPath)
	}
}

func TestProcess_CancelledRunStillArchivesFinishedClips(t *testing.T) {
	f := newServiceFixture(t, 3)
	ctx, cancel := context.WithCancel(context.Background())

	// The first clip cancels the run as it finishes; the remaining items are
	// drained as cancelled.
	f.job = &cancelAfterFirstJob{cancel: cancel}

	res, err := f.service().Process(ctx, Input{OutputDir: "rounds", Parallelism: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Cancelled {
		t.Error("expected the run to be marked cancelled")
	}
	if res.Succeeded != 1 {
		t.Errorf("expected the finished clip to be kept, got %d successes", res.Succeeded)
	}
	if res.ArchivePath == "" {
		t.Error("expected an archive of the finished clips")
	}
}

type cancelAfterFirstJob struct {
	cancel context.CancelFunc
	calls  int
}

func (j *cancelAfterFirstJob) Run(ctx context.Context, item track.Item, workdir string) clip.Result {
	j.calls++
	if j.calls == 1 {
		res := clip.Result{ItemID: item.ID, Position: item.Position, Title: "T", Path: "p", Filename: "f.mp3"}
		j.cancel()
		return res
	}
	return clip.Result{ItemID: item.ID, Position: item.Position, Err: clip.ErrCancelled}
}
