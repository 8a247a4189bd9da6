package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pardeema/trivia-music/domain/track"
	"github.com/pardeema/trivia-music/infrastructure/config"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every queued track",
	Long: `Remove every queued track after a confirmation prompt.

Use --yes to skip the prompt in scripts.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Clear without asking")
}

func runClear(cmd *cobra.Command, args []string) error {
	queue, tracksPath, err := loadQueue()
	if err != nil {
		return err
	}

	return RunClearWithDependencies(queue, tracksPath, clearYes, DefaultPrompter, os.Stdout)
}

// RunClearWithDependencies runs the clear command with injected dependencies (for testing)
func RunClearWithDependencies(queue *track.Queue, tracksPath string, yes bool, prompter Prompter, out io.Writer) error {
	if queue.Len() == 0 {
		fmt.Fprintln(out, "No tracks queued.")
		return nil
	}

	if !yes {
		confirmed, err := prompter.Confirm(fmt.Sprintf("Remove all %d queued tracks?", queue.Len()), false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !confirmed {
			fmt.Fprintln(out, "Clear cancelled.")
			return nil
		}
	}

	if err := queue.Clear(); err != nil {
		return err
	}
	if err := config.SaveQueue(queue, tracksPath); err != nil {
		return err
	}

	fmt.Fprintln(out, "Queue cleared.")
	return nil
}
