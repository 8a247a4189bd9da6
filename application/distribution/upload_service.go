package distribution

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pardeema/trivia-music/domain/distribution"
)

// UploadService publishes finished round archives to Google Drive
type UploadService struct {
	driveClient distribution.DriveClient
	folderID    string
	output      io.Writer
}

// NewUploadService creates a new upload service
func NewUploadService(client distribution.DriveClient, folderID string, output io.Writer) *UploadService {
	if output == nil {
		output = io.Discard
	}
	return &UploadService{
		driveClient: client,
		folderID:    folderID,
		output:      output,
	}
}

// UploadArchive uploads a round archive and makes it shareable. If the target
// folder already holds an archive with the same name it is replaced, and if
// the Drive quota cannot fit the upload, the oldest archives are deleted
// first.
func (s *UploadService) UploadArchive(ctx context.Context, archivePath string) (*distribution.UploadResult, error) {
	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("archive does not exist: %s", archivePath)
	}

	cleanup := NewCleanupService(s.driveClient, s.folderID)
	cleanupResult, err := cleanup.EnsureSpaceAvailable(ctx, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to free storage: %w", err)
	}
	for _, df := range cleanupResult.DeletedFiles {
		fmt.Fprintf(s.output, "      Removed old round: %s (%.1f MB)\n", df.Name, float64(df.Size)/1024/1024)
	}

	fileName := filepath.Base(archivePath)

	existing, err := s.driveClient.FindFileByName(ctx, s.folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	if existing != nil {
		fmt.Fprintf(s.output, "      Replacing existing %s (%.1f MB)\n", existing.Name, float64(existing.Size)/1024/1024)
		if err := s.driveClient.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	req := distribution.UploadRequest{
		LocalPath: archivePath,
		FileName:  fileName,
		FolderID:  s.folderID,
		MimeType:  distribution.MimeTypeZip,
	}
	result, err := s.driveClient.UploadAndShare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload and share %s: %w", fileName, err)
	}
	return result, nil
}
