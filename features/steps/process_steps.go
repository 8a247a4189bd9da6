//go:build integration

package steps

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pardeema/trivia-music/application/archive"
	"github.com/pardeema/trivia-music/application/round"
	"github.com/pardeema/trivia-music/cmd"
	"github.com/pardeema/trivia-music/domain/clip"
	"github.com/pardeema/trivia-music/domain/distribution"
	"github.com/pardeema/trivia-music/domain/track"
	"github.com/pardeema/trivia-music/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// --- Mock implementations ---

// processMockFetcher writes a small source file per request and resolves
// titles from the video id. Failures are injected per video. Workers call
// Fetch concurrently, so the call record is guarded.
type processMockFetcher struct {
	mu       sync.Mutex
	fetches  int
	failures map[string]error
}

func (m *processMockFetcher) Fetch(ctx context.Context, req clip.FetchRequest) (*clip.FetchResult, error) {
	videoID := strings.TrimPrefix(req.URL, "https://youtu.be/")

	m.mu.Lock()
	m.fetches++
	failErr := m.failures[videoID]
	m.mu.Unlock()

	if failErr != nil {
		return nil, failErr
	}

	path := filepath.Join(req.DestDir, "source.m4a")
	if err := os.WriteFile(path, []byte("source audio "+videoID), 0644); err != nil {
		return nil, err
	}

	res := &clip.FetchResult{
		Path:  path,
		Title: "Song " + videoID,
	}
	if req.Window != nil {
		res.StartsAt = req.Window.StartSeconds
	}
	return res, nil
}

func (m *processMockFetcher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

// processMockTrimmer writes the clip file the real assembler later zips.
type processMockTrimmer struct {
	verifyErr error
}

func (m *processMockTrimmer) Trim(ctx context.Context, req *clip.TrimRequest) error {
	return os.WriteFile(req.OutputPath, []byte("clip audio"), 0644)
}

func (m *processMockTrimmer) VerifyInstalled(ctx context.Context) error {
	return m.verifyErr
}

// processMockUploader records the archive it was handed.
type processMockUploader struct {
	uploads  int
	lastPath string
}

func (m *processMockUploader) UploadArchive(ctx context.Context, path string) (*distribution.UploadResult, error) {
	m.uploads++
	m.lastPath = path
	return &distribution.UploadResult{
		FileID:       "uploaded-file-id",
		FileName:     filepath.Base(path),
		ShareableURL: "https://drive.google.com/file/d/uploaded-file-id/view",
		Size:         1024,
	}, nil
}

// --- Step implementations ---

// processContext holds test state for processing run scenarios
type processContext struct {
	tempDir    string
	tracksPath string
	outputDir  string

	queue    *track.Queue
	fetcher  *processMockFetcher
	trimmer  *processMockTrimmer
	uploader *processMockUploader

	driveConfigured bool

	output *bytes.Buffer
	err    error
}

// SharedProcessContext is reset before each scenario via Before hook
var SharedProcessContext *processContext

func getProcessContext() *processContext {
	return SharedProcessContext
}

func InitializeProcessScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "process-test-*")
		if err != nil {
			return c, err
		}
		SharedProcessContext = &processContext{
			tempDir:    tempDir,
			tracksPath: filepath.Join(tempDir, "tracks.yaml"),
			outputDir:  filepath.Join(tempDir, "rounds"),
			queue:      track.NewQueue(),
			fetcher:    &processMockFetcher{failures: make(map[string]error)},
			trimmer:    &processMockTrimmer{},
			uploader:   &processMockUploader{},
			output:     &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedProcessContext != nil && SharedProcessContext.tempDir != "" {
			os.RemoveAll(SharedProcessContext.tempDir)
		}
		SharedProcessContext = nil
		return c, nil
	})

	ctx.Step(`^an empty queue$`, anEmptyQueue)
	ctx.Step(`^a queue with tracks:$`, aQueueWithTracks)
	ctx.Step(`^fetching "([^"]*)" fails as not found$`, fetchingFailsAsNotFound)
	ctx.Step(`^Google Drive is configured$`, googleDriveIsConfigured)
	ctx.Step(`^ffmpeg is not installed$`, ffmpegIsNotInstalled)
	ctx.Step(`^I run process$`, iRunProcess)
	ctx.Step(`^I run process with upload requested$`, iRunProcessWithUploadRequested)
	ctx.Step(`^I run process keeping the queue$`, iRunProcessKeepingTheQueue)
	ctx.Step(`^the run should succeed$`, theRunShouldSucceed)
	ctx.Step(`^the run should fail with "([^"]*)"$`, theRunShouldFailWith)
	ctx.Step(`^the failure should suggest "([^"]*)"$`, theFailureShouldSuggest)
	ctx.Step(`^the output should report "([^"]*)"$`, theOutputShouldReport)
	ctx.Step(`^the archive should have (\d+) entries$`, theArchiveShouldHaveEntries)
	ctx.Step(`^archive entry (\d+) should be "([^"]*)"$`, archiveEntryShouldBe)
	ctx.Step(`^the archive should have been uploaded$`, theArchiveShouldHaveBeenUploaded)
	ctx.Step(`^the queue should be empty afterwards$`, theQueueShouldBeEmptyAfterwards)
	ctx.Step(`^the queue should contain (\d+) tracks? afterwards$`, theQueueShouldContainTracksAfterwards)
	ctx.Step(`^the queue should contain exactly "([^"]*)" afterwards$`, theQueueShouldContainExactlyAfterwards)
	ctx.Step(`^track (\d+) should be labelled "([^"]*)"$`, trackShouldBeLabelled)
	ctx.Step(`^there should have been (\d+) fetch(?:es)?$`, thereShouldHaveBeenFetches)
}

// anEmptyQueue documents the starting state; the Before hook already created
// a fresh queue.
func anEmptyQueue() error {
	return nil
}

func aQueueWithTracks(table *godog.Table) error {
	p := getProcessContext()
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		if _, err := p.queue.Add(row.Cells[0].Value, "", 0); err != nil {
			return fmt.Errorf("queueing %s: %v", row.Cells[0].Value, err)
		}
	}
	return nil
}

func fetchingFailsAsNotFound(videoID string) error {
	p := getProcessContext()
	p.fetcher.failures[videoID] = clip.ErrNotFound
	return nil
}

func googleDriveIsConfigured() error {
	p := getProcessContext()
	p.driveConfigured = true
	return nil
}

func ffmpegIsNotInstalled() error {
	p := getProcessContext()
	p.trimmer.verifyErr = clip.ErrToolNotFound
	return nil
}

func (p *processContext) run(upload, keep bool) {
	// A nil interface here mirrors an unconfigured Drive in production.
	var uploader round.ArchiveUploader
	if p.driveConfigured {
		uploader = p.uploader
	}

	p.err = cmd.RunProcessWithDependencies(
		context.Background(),
		p.queue,
		p.tracksPath,
		p.fetcher,
		p.trimmer,
		filesystem.NewChecker(),
		filesystem.NewWorkspace(filepath.Join(p.tempDir, "work")),
		archive.NewAssembler(),
		uploader,
		round.Input{
			OutputDir:   p.outputDir,
			Parallelism: 2,
			Upload:      upload,
		},
		keep,
		p.output,
	)
}

func iRunProcess() error {
	getProcessContext().run(false, false)
	return nil
}

func iRunProcessWithUploadRequested() error {
	getProcessContext().run(true, false)
	return nil
}

func iRunProcessKeepingTheQueue() error {
	getProcessContext().run(false, true)
	return nil
}

// archivePath finds the zip the run wrote; each scenario writes at most one.
func (p *processContext) archivePath() (string, error) {
	matches, err := filepath.Glob(filepath.Join(p.outputDir, "*.zip"))
	if err != nil {
		return "", err
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("expected exactly one archive in %s, found %d", p.outputDir, len(matches))
	}
	return matches[0], nil
}

func (p *processContext) archiveEntries() ([]string, error) {
	path, err := p.archivePath()
	if err != nil {
		return nil, err
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %v", err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

func theRunShouldSucceed() error {
	p := getProcessContext()
	if p.err != nil {
		return fmt.Errorf("expected run to succeed, got: %v\nOutput: %s", p.err, p.output.String())
	}
	return nil
}

func theRunShouldFailWith(expected string) error {
	p := getProcessContext()
	if p.err == nil {
		return fmt.Errorf("expected run to fail with %q, but it succeeded", expected)
	}
	if !strings.Contains(p.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got: %v", expected, p.err)
	}
	return nil
}

func theFailureShouldSuggest(expected string) error {
	p := getProcessContext()
	if p.err == nil {
		return fmt.Errorf("no error to check for suggestion")
	}
	if !strings.Contains(p.err.Error(), expected) {
		return fmt.Errorf("expected suggestion containing %q, got: %v", expected, p.err)
	}
	return nil
}

func theOutputShouldReport(expected string) error {
	p := getProcessContext()
	if !strings.Contains(p.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, p.output.String())
	}
	return nil
}

func theArchiveShouldHaveEntries(count int) error {
	p := getProcessContext()
	names, err := p.archiveEntries()
	if err != nil {
		return err
	}
	if len(names) != count {
		return fmt.Errorf("expected %d entries, got %d: %v", count, len(names), names)
	}
	return nil
}

func archiveEntryShouldBe(index int, want string) error {
	p := getProcessContext()
	names, err := p.archiveEntries()
	if err != nil {
		return err
	}
	if index < 1 || index > len(names) {
		return fmt.Errorf("no entry %d in archive with %d entries", index, len(names))
	}
	if names[index-1] != want {
		return fmt.Errorf("expected entry %d to be %q, got %q", index, want, names[index-1])
	}
	return nil
}

func theArchiveShouldHaveBeenUploaded() error {
	p := getProcessContext()
	if p.uploader.uploads == 0 {
		return fmt.Errorf("upload was not called")
	}
	return nil
}

func theQueueShouldBeEmptyAfterwards() error {
	p := getProcessContext()
	if p.queue.Len() != 0 {
		return fmt.Errorf("expected an empty queue, got %d tracks", p.queue.Len())
	}
	return nil
}

func theQueueShouldContainTracksAfterwards(count int) error {
	p := getProcessContext()
	if p.queue.Len() != count {
		return fmt.Errorf("expected %d tracks, got %d", count, p.queue.Len())
	}
	return nil
}

func theQueueShouldContainExactlyAfterwards(videoID string) error {
	p := getProcessContext()
	items := p.queue.Snapshot()
	if len(items) != 1 {
		return fmt.Errorf("expected exactly one track, got %d", len(items))
	}
	if items[0].VideoID != videoID {
		return fmt.Errorf("expected the remaining track to be %q, got %q", videoID, items[0].VideoID)
	}
	return nil
}

func trackShouldBeLabelled(id int, want string) error {
	p := getProcessContext()
	item, ok := p.queue.Get(id)
	if !ok {
		return fmt.Errorf("no track with id %d", id)
	}
	if item.Label != want {
		return fmt.Errorf("expected label %q, got %q", want, item.Label)
	}
	return nil
}

func thereShouldHaveBeenFetches(count int) error {
	p := getProcessContext()
	if got := p.fetcher.count(); got != count {
		return fmt.Errorf("expected %d fetches, got %d", count, got)
	}
	return nil
}
