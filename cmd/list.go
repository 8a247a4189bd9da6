package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pardeema/trivia-music/domain/track"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the queued tracks",
	Long: `List the queued tracks in processing order.

Titles appear once a run has resolved them; before that the track shows
its video id.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	queue, _, err := loadQueue()
	if err != nil {
		return err
	}

	return RunListWithDependencies(queue, os.Stdout)
}

// RunListWithDependencies runs the list command with injected dependencies (for testing)
func RunListWithDependencies(queue *track.Queue, out io.Writer) error {
	items := queue.Snapshot()
	if len(items) == 0 {
		fmt.Fprintln(out, "No tracks queued.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tOFFSET\tLENGTH\tTRACK\tURL")
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%d\t%s\t%ds\t%s\t%s\n",
			it.Position, it.ID, track.FormatOffset(it.Offset), it.Duration, it.DisplayLabel(), it.URL)
	}
	return w.Flush()
}
