//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pardeema/trivia-music/cmd"
	"github.com/pardeema/trivia-music/domain/track"
	"github.com/pardeema/trivia-music/infrastructure/config"

	"github.com/cucumber/godog"
)

// queueContext holds test state for queue management scenarios
type queueContext struct {
	tempDir    string
	tracksPath string
	queue      *track.Queue
	prompter   *MockPrompter
	output     *bytes.Buffer
	err        error
}

// SharedQueueContext is reset before each scenario via Before hook
var SharedQueueContext *queueContext

func getQueueContext() *queueContext {
	return SharedQueueContext
}

func InitializeQueueScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "queue-test-*")
		if err != nil {
			return c, err
		}
		SharedQueueContext = &queueContext{
			tempDir:    tempDir,
			tracksPath: filepath.Join(tempDir, "tracks.yaml"),
			queue:      track.NewQueue(),
			prompter:   NewMockPrompter(nil, nil),
			output:     &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedQueueContext != nil && SharedQueueContext.tempDir != "" {
			os.RemoveAll(SharedQueueContext.tempDir)
		}
		SharedQueueContext = nil
		return c, nil
	})

	ctx.Step(`^an empty track queue$`, anEmptyTrackQueue)
	ctx.Step(`^the next prompt answer is "([^"]*)"$`, theNextPromptAnswerIs)
	ctx.Step(`^the next confirm answer is "([^"]*)"$`, theNextConfirmAnswerIs)
	ctx.Step(`^I add the track "([^"]*)"$`, iAddTheTrack)
	ctx.Step(`^I add the track "([^"]*)" with duration (\d+)$`, iAddTheTrackWithDuration)
	ctx.Step(`^I try to add the track "([^"]*)"$`, iTryToAddTheTrack)
	ctx.Step(`^I remove track (\d+)$`, iRemoveTrack)
	ctx.Step(`^I try to remove track (\d+)$`, iTryToRemoveTrack)
	ctx.Step(`^I set the duration of track (\d+) to (\d+) seconds$`, iSetTheDurationOfTrack)
	ctx.Step(`^I clear the queue$`, iClearTheQueue)
	ctx.Step(`^the queue is reloaded from disk$`, theQueueIsReloadedFromDisk)
	ctx.Step(`^the queue should contain (\d+) tracks?$`, theQueueShouldContainTracks)
	ctx.Step(`^track (\d+) should have url "([^"]*)"$`, trackShouldHaveURL)
	ctx.Step(`^track (\d+) should have offset "([^"]*)"$`, trackShouldHaveOffset)
	ctx.Step(`^track (\d+) should have duration (\d+) seconds$`, trackShouldHaveDuration)
	ctx.Step(`^the track ids should be "([^"]*)"$`, theTrackIdsShouldBe)
	ctx.Step(`^the command should fail with "([^"]*)"$`, theCommandShouldFailWith)
	ctx.Step(`^the output should mention "([^"]*)"$`, theOutputShouldMention)
}

// anEmptyTrackQueue documents the starting state; the Before hook already
// created a fresh queue.
func anEmptyTrackQueue() error {
	return nil
}

func theNextPromptAnswerIs(answer string) error {
	q := getQueueContext()
	q.prompter.inputResponses = append(q.prompter.inputResponses, answer)
	return nil
}

func theNextConfirmAnswerIs(answer string) error {
	q := getQueueContext()
	q.prompter.confirmResponses = append(q.prompter.confirmResponses, strings.ToLower(answer) == "y")
	return nil
}

func iAddTheTrack(url string) error {
	q := getQueueContext()
	if err := cmd.RunAddWithDependencies(q.queue, q.tracksPath, url, "", 0, q.prompter, q.output); err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}
	return nil
}

func iAddTheTrackWithDuration(url string, duration int) error {
	q := getQueueContext()
	if err := cmd.RunAddWithDependencies(q.queue, q.tracksPath, url, "", duration, q.prompter, q.output); err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}
	return nil
}

func iTryToAddTheTrack(url string) error {
	q := getQueueContext()
	q.err = cmd.RunAddWithDependencies(q.queue, q.tracksPath, url, "", 0, q.prompter, q.output)
	return nil
}

func iRemoveTrack(id int) error {
	q := getQueueContext()
	if err := cmd.RunRemoveWithDependencies(q.queue, q.tracksPath, id, q.output); err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}
	return nil
}

func iTryToRemoveTrack(id int) error {
	q := getQueueContext()
	q.err = cmd.RunRemoveWithDependencies(q.queue, q.tracksPath, id, q.output)
	return nil
}

func iSetTheDurationOfTrack(id, seconds int) error {
	q := getQueueContext()
	if err := cmd.RunSetDurationWithDependencies(q.queue, q.tracksPath, id, seconds, q.output); err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}
	return nil
}

func iClearTheQueue() error {
	q := getQueueContext()
	if err := cmd.RunClearWithDependencies(q.queue, q.tracksPath, false, q.prompter, q.output); err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}
	return nil
}

func theQueueIsReloadedFromDisk() error {
	q := getQueueContext()
	loaded, err := config.LoadQueue(q.tracksPath)
	if err != nil {
		return fmt.Errorf("reload failed: %v", err)
	}
	q.queue = loaded
	return nil
}

func theQueueShouldContainTracks(count int) error {
	q := getQueueContext()
	if q.queue.Len() != count {
		return fmt.Errorf("expected %d tracks, got %d", count, q.queue.Len())
	}
	return nil
}

func trackShouldHaveURL(id int, want string) error {
	q := getQueueContext()
	item, ok := q.queue.Get(id)
	if !ok {
		return fmt.Errorf("no track with id %d", id)
	}
	if item.URL != want {
		return fmt.Errorf("expected url %q, got %q", want, item.URL)
	}
	return nil
}

func trackShouldHaveOffset(id int, want string) error {
	q := getQueueContext()
	item, ok := q.queue.Get(id)
	if !ok {
		return fmt.Errorf("no track with id %d", id)
	}
	if got := track.FormatOffset(item.Offset); got != want {
		return fmt.Errorf("expected offset %q, got %q", want, got)
	}
	return nil
}

func trackShouldHaveDuration(id, want int) error {
	q := getQueueContext()
	item, ok := q.queue.Get(id)
	if !ok {
		return fmt.Errorf("no track with id %d", id)
	}
	if item.Duration != want {
		return fmt.Errorf("expected duration %d, got %d", want, item.Duration)
	}
	return nil
}

func theTrackIdsShouldBe(want string) error {
	q := getQueueContext()
	var ids []string
	for _, it := range q.queue.Snapshot() {
		ids = append(ids, strconv.Itoa(it.ID))
	}
	if got := strings.Join(ids, ", "); got != want {
		return fmt.Errorf("expected ids %q, got %q", want, got)
	}
	return nil
}

func theCommandShouldFailWith(expected string) error {
	q := getQueueContext()
	if q.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(q.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got: %v", expected, q.err)
	}
	return nil
}

func theOutputShouldMention(expected string) error {
	q := getQueueContext()
	if !strings.Contains(q.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, q.output.String())
	}
	return nil
}
