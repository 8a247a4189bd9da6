package distribution

import (
	"context"
	"time"
)

// DriveClient defines the interface for Google Drive operations
// This is a port that can be implemented by different infrastructure adapters
type DriveClient interface {
	// FindFileByName looks a file up by exact name inside a folder. A nil
	// result without an error means no such file exists.
	FindFileByName(ctx context.Context, folderID, name string) (*FileInfo, error)

	// GetStorageQuota returns the current storage quota information
	GetStorageQuota(ctx context.Context) (*StorageInfo, error)

	// ListArchives lists zip archives in a folder sorted by filename. Archive
	// names carry their assembly timestamp, so name order is oldest first.
	ListArchives(ctx context.Context, folderID string) ([]FileInfo, error)

	// UploadAndShare uploads a file and makes it readable by anyone with the
	// link, returning the shareable URL.
	UploadAndShare(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// DeletePermanently deletes a file permanently (bypasses trash)
	DeletePermanently(ctx context.Context, fileID string) error
}

// FileInfo represents metadata about a file in Google Drive
type FileInfo struct {
	ID          string
	Name        string
	MimeType    string
	Size        int64
	CreatedTime time.Time
}
