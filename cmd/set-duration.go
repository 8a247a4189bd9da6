package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pardeema/trivia-music/domain/track"
	"github.com/pardeema/trivia-music/infrastructure/config"

	"github.com/spf13/cobra"
)

var setDurationCmd = &cobra.Command{
	Use:   "set-duration <id> <seconds>",
	Short: "Change a queued track's clip duration",
	Long: fmt.Sprintf(`Change a queued track's clip duration.

Durations are kept between %d and %d seconds; values outside the range
are moved to the nearest bound.

Example:
  trivia-music set-duration 3 18`, track.MinDuration, track.MaxDuration),
	Args: cobra.ExactArgs(2),
	RunE: runSetDuration,
}

func init() {
	rootCmd.AddCommand(setDurationCmd)
}

func runSetDuration(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid track id %q", args[0])
	}
	seconds, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid duration %q", args[1])
	}

	queue, tracksPath, err := loadQueue()
	if err != nil {
		return err
	}

	return RunSetDurationWithDependencies(queue, tracksPath, id, seconds, os.Stdout)
}

// RunSetDurationWithDependencies runs the set-duration command with injected dependencies (for testing)
func RunSetDurationWithDependencies(queue *track.Queue, tracksPath string, id, seconds int, out io.Writer) error {
	item, err := queue.SetDuration(id, seconds)
	if err != nil {
		return err
	}

	if err := config.SaveQueue(queue, tracksPath); err != nil {
		return err
	}

	if item.Duration != seconds {
		fmt.Fprintf(out, "Track %d duration set to %ds (%ds is outside the %d-%d range)\n",
			id, item.Duration, seconds, track.MinDuration, track.MaxDuration)
		return nil
	}
	fmt.Fprintf(out, "Track %d duration set to %ds\n", id, item.Duration)
	return nil
}
