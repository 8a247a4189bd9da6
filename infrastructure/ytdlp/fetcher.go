package ytdlp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/pardeema/trivia-music/domain/clip"
	"github.com/pardeema/trivia-music/infrastructure/logging"
)

// Fetcher implements clip.Fetcher using yt-dlp. The binary is bootstrapped
// on first use, so a bare machine only needs ffmpeg preinstalled.
type Fetcher struct {
	installOnce sync.Once
	installErr  error
}

// NewFetcher creates a new yt-dlp backed fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// ensureInstalled downloads a pinned yt-dlp binary if none is present.
func (f *Fetcher) ensureInstalled(ctx context.Context) error {
	f.installOnce.Do(func() {
		_, f.installErr = ytdlp.Install(ctx, nil)
	})
	return f.installErr
}

// Fetch implements clip.Fetcher. It downloads the worst audio-only format
// (smallest transfer for a short clip), extracts mp3, and bounds the
// download to the clip window when one is requested.
func (f *Fetcher) Fetch(ctx context.Context, req clip.FetchRequest) (*clip.FetchResult, error) {
	if err := f.ensureInstalled(ctx); err != nil {
		return nil, fmt.Errorf("%w: installing yt-dlp: %v", clip.ErrNetwork, err)
	}

	logger := logging.Component("fetch")

	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		NoPlaylist().
		Format("worstaudio/worst").
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality(clip.AudioBitrate).
		Output(filepath.Join(req.DestDir, "%(id)s.%(ext)s"))

	if req.Window != nil {
		end := req.Window.StartSeconds + req.Window.DurationSeconds
		dl.DownloadSections(fmt.Sprintf("*%d-%d", req.Window.StartSeconds, end))
	}

	dl.ProgressFunc(500*time.Millisecond, func(update ytdlp.ProgressUpdate) {
		if update.TotalBytes > 0 {
			percent := float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
			logger.Debug().Str("url", req.URL).Int("percent", int(percent)).Msg("downloading")
		}
	})

	result, err := dl.Run(ctx, req.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyFetchFailure(err)
	}

	path, err := findMediaFile(req.DestDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", clip.ErrNetwork, err)
	}

	res := &clip.FetchResult{Path: path, Title: extractTitle(result)}
	if req.Window != nil {
		res.StartsAt = req.Window.StartSeconds
	}
	return res, nil
}

// extractTitle pulls the video title out of the yt-dlp result, if any.
func extractTitle(result *ytdlp.Result) string {
	if result == nil {
		return ""
	}
	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 || info[0].Title == nil {
		return ""
	}
	return *info[0].Title
}

// classifyFetchFailure maps yt-dlp error output to a clip failure kind.
func classifyFetchFailure(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "video unavailable"),
		strings.Contains(msg, "does not exist"),
		strings.Contains(msg, "404"),
		strings.Contains(msg, "no longer available"):
		return fmt.Errorf("%w: %v", clip.ErrNotFound, err)
	case strings.Contains(msg, "private video"),
		strings.Contains(msg, "sign in"),
		strings.Contains(msg, "age"),
		strings.Contains(msg, "members-only"),
		strings.Contains(msg, "available in your country"),
		strings.Contains(msg, "blocked"):
		return fmt.Errorf("%w: %v", clip.ErrRestricted, err)
	default:
		return fmt.Errorf("%w: %v", clip.ErrNetwork, err)
	}
}

// findMediaFile locates the downloaded media in an exclusive destination
// directory, preferring the extracted mp3 and ignoring partial downloads.
func findMediaFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading download dir: %v", err)
	}

	var fallback string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") {
			continue
		}
		if strings.HasSuffix(name, ".mp3") {
			return filepath.Join(dir, name), nil
		}
		fallback = filepath.Join(dir, name)
	}

	if fallback == "" {
		return "", fmt.Errorf("no media file produced in %s", dir)
	}
	return fallback, nil
}

// Ensure Fetcher implements clip.Fetcher
var _ clip.Fetcher = (*Fetcher)(nil)
