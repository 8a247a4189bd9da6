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

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a track from the queue",
	Long: `Remove a track from the queue by its id (shown by 'trivia-music list').

The remaining tracks close the gap; ids are never reassigned.

Example:
  trivia-music remove 3`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid track id %q", args[0])
	}

	queue, tracksPath, err := loadQueue()
	if err != nil {
		return err
	}

	return RunRemoveWithDependencies(queue, tracksPath, id, os.Stdout)
}

// RunRemoveWithDependencies runs the remove command with injected dependencies (for testing)
func RunRemoveWithDependencies(queue *track.Queue, tracksPath string, id int, out io.Writer) error {
	item, ok := queue.Get(id)
	if !ok {
		return fmt.Errorf("no track with id %d; run 'trivia-music list'", id)
	}

	if err := queue.Remove(id); err != nil {
		return err
	}
	if err := config.SaveQueue(queue, tracksPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "Removed track %d: %s\n", id, item.DisplayLabel())
	return nil
}
