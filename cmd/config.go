package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pardeema/trivia-music/infrastructure/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration: the config file merged with the
built-in defaults.`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration could not be loaded; check %s", cfgFile)
	}

	return RunConfigShowWithDependencies(cfg, cfgFile, os.Stdout)
}

// RunConfigShowWithDependencies runs the config show command with injected dependencies (for testing)
func RunConfigShowWithDependencies(cfg *config.Config, configPath string, out io.Writer) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "output_directory\t%s\n", cfg.Paths.OutputDirectory)
	fmt.Fprintf(w, "work_directory\t%s\n", orText(cfg.Paths.WorkDirectory, "(system temp)"))
	fmt.Fprintf(w, "tracks_file\t%s\n", cfg.Paths.TracksFile)
	fmt.Fprintf(w, "ffmpeg_path\t%s\n", orText(cfg.Paths.FFmpegPath, "(from PATH)"))
	fmt.Fprintf(w, "parallelism\t%d\n", cfg.Processing.Parallelism)
	fmt.Fprintf(w, "timeout_minutes\t%d\n", cfg.Processing.TimeoutMinutes)
	if cfg.Drive.FolderID != "" {
		fmt.Fprintf(w, "drive.credentials_file\t%s\n", cfg.Drive.CredentialsFile)
		fmt.Fprintf(w, "drive.token_file\t%s\n", cfg.Drive.TokenFile)
		fmt.Fprintf(w, "drive.folder_id\t%s\n", cfg.Drive.FolderID)
	} else {
		fmt.Fprintf(w, "drive\t(not configured)\n")
	}
	return w.Flush()
}

func orText(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
