package cmd

import (
	"fmt"
	"os"

	"github.com/pardeema/trivia-music/domain/track"
	"github.com/pardeema/trivia-music/infrastructure/config"
	"github.com/pardeema/trivia-music/infrastructure/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "trivia-music",
	Short: "Build pub-quiz music rounds from YouTube clips",
	Long: `trivia-music turns a queue of YouTube links into a music round:

  - Queue tracks with a start offset and clip duration
  - Fetch and trim every track to a short mp3 clip, a few at a time
  - Pack the clips into a numbered zip archive
  - Optionally upload the archive to Google Drive with a share link

Example:
  trivia-music add "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=43s"
  trivia-music add "https://youtu.be/kXYiU_JCYtU" --offset 1:07
  trivia-music process --output rounds`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	logging.Init(verbose)

	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	var err error
	cfg, err = config.LoadOrDefault(cfgFile)
	if err != nil {
		// A broken config file must not block help output; commands that
		// need config check and error appropriately
		cfg = nil
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// loadQueue reads the pending track queue from the configured tracks file and
// returns it together with the path to save it back to.
func loadQueue() (*track.Queue, string, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, "", fmt.Errorf("configuration could not be loaded; check %s", cfgFile)
	}

	queue, err := config.LoadQueue(cfg.Paths.TracksFile)
	if err != nil {
		return nil, "", err
	}
	return queue, cfg.Paths.TracksFile, nil
}
