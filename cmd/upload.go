package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	appdist "github.com/pardeema/trivia-music/application/distribution"
	"github.com/pardeema/trivia-music/domain/distribution"
	"github.com/pardeema/trivia-music/infrastructure/drive"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <archive.zip>",
	Short: "Upload a round archive to Google Drive",
	Long: `Upload an existing round archive to the configured Google Drive folder
and make it readable by anyone with the link.

An archive already in the folder under the same name is replaced. When
the Drive quota has no room for the new file, the oldest rounds are
deleted first to make space.

Example:
  trivia-music upload rounds/music_rounds_20250607_153000.zip`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration could not be loaded; check %s", cfgFile)
	}
	if cfg.Drive.FolderID == "" || cfg.Drive.CredentialsFile == "" {
		return fmt.Errorf("Google Drive is not configured. Run 'trivia-music setup' first")
	}

	ctx := cmd.Context()
	client, err := drive.NewClientWithOAuth(ctx, cfg.Drive.CredentialsFile, cfg.Drive.TokenFile)
	if err != nil {
		return fmt.Errorf("failed to create Google Drive client: %w", err)
	}

	return RunUploadWithDependencies(ctx, client, cfg.Drive.FolderID, args[0], os.Stdout)
}

// RunUploadWithDependencies runs the upload command with injected dependencies (for testing)
func RunUploadWithDependencies(
	ctx context.Context,
	driveClient distribution.DriveClient,
	folderID string,
	archivePath string,
	output io.Writer,
) error {
	service := appdist.NewUploadService(driveClient, folderID, output)

	fmt.Fprintf(output, "Uploading %s...\n", filepath.Base(archivePath))
	result, err := service.UploadArchive(ctx, archivePath)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintf(output, "Uploaded %s (%.1f MB)\n", result.FileName, float64(result.Size)/1024/1024)
	fmt.Fprintf(output, "Link: %s\n", result.ShareableURL)
	return nil
}
