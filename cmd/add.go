package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pardeema/trivia-music/domain/track"
	"github.com/pardeema/trivia-music/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	addOffset   string
	addDuration int
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Queue a YouTube track for the next round",
	Long: `Queue a YouTube track for the next music round.

The URL is normalized to its short form. A t parameter in the URL becomes
the clip's start offset; without one you are prompted for an offset, or
can pass it with --offset. The clip duration defaults to 15 seconds and
is kept between 12 and 20.

Examples:
  trivia-music add "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=43s"
  trivia-music add "https://youtu.be/kXYiU_JCYtU" --offset 1:07 --duration 18`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addOffset, "offset", "", "Start offset as seconds, M:SS, or H:MM:SS (prompted for when the URL carries none)")
	addCmd.Flags().IntVar(&addDuration, "duration", 0, fmt.Sprintf("Clip duration in seconds, kept between %d and %d (default %d)", track.MinDuration, track.MaxDuration, track.DefaultDuration))
}

func runAdd(cmd *cobra.Command, args []string) error {
	queue, tracksPath, err := loadQueue()
	if err != nil {
		return err
	}

	return RunAddWithDependencies(queue, tracksPath, args[0], addOffset, addDuration, DefaultPrompter, os.Stdout)
}

// RunAddWithDependencies runs the add command with injected dependencies (for testing)
func RunAddWithDependencies(queue *track.Queue, tracksPath, rawURL, offset string, duration int, prompter Prompter, out io.Writer) error {
	// Ask for an offset only when neither the URL nor --offset carries one.
	// The URL is validated up front so a bad link fails before the prompt.
	if offset == "" {
		norm, err := track.NormalizeURL(rawURL)
		if err != nil {
			return err
		}
		if !norm.HasOffset {
			offset, err = prompter.Input("Start offset for this track (e.g. 1:23):", "")
			if err != nil {
				return fmt.Errorf("prompt cancelled")
			}
		}
	}

	item, err := queue.Add(rawURL, offset, duration)
	if err != nil {
		return err
	}

	if err := config.SaveQueue(queue, tracksPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "Added track %d: %s (offset %s, %ds)\n",
		item.ID, item.URL, track.FormatOffset(item.Offset), item.Duration)
	return nil
}
