package distribution

import (
	"context"
	"fmt"

	"github.com/pardeema/trivia-music/domain/distribution"
)

// CleanupService frees Drive storage by retiring the oldest round archives
type CleanupService struct {
	driveClient distribution.DriveClient
	folderID    string
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(client distribution.DriveClient, folderID string) *CleanupService {
	return &CleanupService{
		driveClient: client,
		folderID:    folderID,
	}
}

// EnsureSpaceAvailable deletes the oldest archives until neededBytes fit in
// the storage quota. Archive names are timestamped, so name order is age
// order. It returns what was deleted.
func (s *CleanupService) EnsureSpaceAvailable(ctx context.Context, neededBytes int64) (*distribution.CleanupResult, error) {
	result := &distribution.CleanupResult{}

	for {
		storage, err := s.driveClient.GetStorageQuota(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to check storage: %w", err)
		}

		if storage.HasSpaceFor(neededBytes) {
			return result, nil
		}

		archives, err := s.driveClient.ListArchives(ctx, s.folderID)
		if err != nil {
			return result, fmt.Errorf("failed to list archives: %w", err)
		}

		if len(archives) == 0 {
			return result, fmt.Errorf("no archives to delete, need %d bytes but only %d available",
				neededBytes, storage.AvailableBytes)
		}

		oldest := archives[0]

		if err := s.driveClient.DeletePermanently(ctx, oldest.ID); err != nil {
			return result, fmt.Errorf("failed to delete %s: %w", oldest.Name, err)
		}

		result.DeletedFiles = append(result.DeletedFiles, distribution.DeletedFile{
			Name: oldest.Name,
			Size: oldest.Size,
		})
		result.FreedBytes += oldest.Size
	}
}
