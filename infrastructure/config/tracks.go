package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pardeema/trivia-music/domain/track"
)

// tracksFile is the on-disk shape of the pending queue. The next id is
// persisted so ids are never reused across sessions, even after removals.
type tracksFile struct {
	NextID int           `yaml:"next_id"`
	Tracks []trackRecord `yaml:"tracks"`
}

// trackRecord is one persisted queue entry
type trackRecord struct {
	ID       int    `yaml:"id"`
	RawURL   string `yaml:"raw_url"`
	URL      string `yaml:"url"`
	VideoID  string `yaml:"video_id"`
	Offset   int    `yaml:"offset"`
	Duration int    `yaml:"duration"`
	Label    string `yaml:"label,omitempty"`
}

// LoadQueue reads the tracks file into a queue. A missing file yields an
// empty queue.
func LoadQueue(path string) (*track.Queue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return track.NewQueue(), nil
		}
		return nil, fmt.Errorf("failed to read tracks file: %w", err)
	}

	var file tracksFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tracks file: %w", err)
	}

	items := make([]track.Item, 0, len(file.Tracks))
	for _, rec := range file.Tracks {
		items = append(items, track.Item{
			ID:       rec.ID,
			RawURL:   rec.RawURL,
			URL:      rec.URL,
			VideoID:  rec.VideoID,
			Offset:   rec.Offset,
			Duration: rec.Duration,
			Label:    rec.Label,
		})
	}

	queue, err := track.RestoreQueue(file.NextID, items)
	if err != nil {
		return nil, fmt.Errorf("tracks file %s: %w", path, err)
	}
	return queue, nil
}

// SaveQueue writes the queue back to the tracks file, creating the parent
// directory if needed.
func SaveQueue(queue *track.Queue, path string) error {
	file := tracksFile{NextID: queue.NextID()}
	for _, it := range queue.Snapshot() {
		file.Tracks = append(file.Tracks, trackRecord{
			ID:       it.ID,
			RawURL:   it.RawURL,
			URL:      it.URL,
			VideoID:  it.VideoID,
			Offset:   it.Offset,
			Duration: it.Duration,
			Label:    it.Label,
		})
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to serialize tracks: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create tracks directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write tracks file: %w", err)
	}

	return nil
}
