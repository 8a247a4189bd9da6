package drive

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pardeema/trivia-music/domain/distribution"

	"google.golang.org/api/drive/v3"
)

// mockDriveService is a mock implementation for testing
type mockDriveService struct {
	files          []*drive.File
	uploaded       *drive.File
	shouldFail     bool
	failError      error
	storageLimit   int64
	storageUsage   int64
	deletedFileIDs []string

	lastQuery      string
	lastOrderBy    string
	lastUploadName string
	lastUploadMime string
	lastFolderID   string
	lastLocalPath  string
	lastPermission *drive.Permission
}

func (m *mockDriveService) ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error) {
	m.lastQuery = query
	m.lastOrderBy = orderBy
	if m.shouldFail {
		return nil, m.failError
	}
	return m.files, nil
}

func (m *mockDriveService) GetAbout(ctx context.Context, fields string) (*drive.About, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return &drive.About{
		StorageQuota: &drive.AboutStorageQuota{
			Limit: m.storageLimit,
			Usage: m.storageUsage,
		},
	}, nil
}

func (m *mockDriveService) UploadFile(ctx context.Context, fileName, mimeType, folderID, localPath string) (*drive.File, error) {
	m.lastUploadName = fileName
	m.lastUploadMime = mimeType
	m.lastFolderID = folderID
	m.lastLocalPath = localPath
	if m.shouldFail {
		return nil, m.failError
	}
	if m.uploaded != nil {
		return m.uploaded, nil
	}
	return &drive.File{
		Id:          "uploaded-file-id",
		Name:        fileName,
		MimeType:    mimeType,
		Size:        1024,
		WebViewLink: "https://drive.google.com/file/d/uploaded-file-id/view",
	}, nil
}

func (m *mockDriveService) CreatePermission(ctx context.Context, fileID string, permission *drive.Permission) error {
	m.lastPermission = permission
	if m.shouldFail {
		return m.failError
	}
	return nil
}

func (m *mockDriveService) DeleteFile(ctx context.Context, fileID string) error {
	if m.shouldFail {
		return m.failError
	}
	m.deletedFileIDs = append(m.deletedFileIDs, fileID)
	return nil
}

func TestClient_FindFileByName(t *testing.T) {
	testTime := time.Date(2025, 6, 7, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mock     *mockDriveService
		fileName string
		wantNil  bool
		wantID   string
		wantErr  bool
		errMsg   string
	}{
		{
			name: "finds existing file",
			mock: &mockDriveService{
				files: []*drive.File{
					{
						Id:          "file-1",
						Name:        "music_rounds_20250607_153000.zip",
						MimeType:    "application/zip",
						Size:        2048,
						CreatedTime: testTime.Format(time.RFC3339),
					},
				},
			},
			fileName: "music_rounds_20250607_153000.zip",
			wantID:   "file-1",
		},
		{
			name:     "returns nil when absent",
			mock:     &mockDriveService{files: []*drive.File{}},
			fileName: "music_rounds_20250607_153000.zip",
			wantNil:  true,
		},
		{
			name: "handles API error",
			mock: &mockDriveService{
				shouldFail: true,
				failError:  fmt.Errorf("googleapi: Error 403: permission denied"),
			},
			fileName: "music_rounds_20250607_153000.zip",
			wantErr:  true,
			errMsg:   "failed to find file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(
				context.Background(),
				"",
				WithDriveService(tt.mock),
			)
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			info, err := client.FindFileByName(context.Background(), "test-folder-id", tt.fileName)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if !strings.Contains(tt.mock.lastQuery, fmt.Sprintf("name = '%s'", tt.fileName)) {
				t.Errorf("query %q does not filter by name", tt.mock.lastQuery)
			}

			if tt.wantNil {
				if info != nil {
					t.Errorf("expected nil for absent file, got %+v", info)
				}
				return
			}

			if info == nil {
				t.Fatal("expected file info, got nil")
			}
			if info.ID != tt.wantID {
				t.Errorf("expected ID %q, got %q", tt.wantID, info.ID)
			}
		})
	}
}

func TestClient_GetStorageQuota(t *testing.T) {
	tests := []struct {
		name          string
		mock          *mockDriveService
		wantTotal     int64
		wantUsed      int64
		wantAvailable int64
		wantErr       bool
	}{
		{
			name: "returns storage quota successfully",
			mock: &mockDriveService{
				storageLimit: 15000000000, // 15 GB
				storageUsage: 5000000000,  // 5 GB
			},
			wantTotal:     15000000000,
			wantUsed:      5000000000,
			wantAvailable: 10000000000,
			wantErr:       false,
		},
		{
			name: "handles API error",
			mock: &mockDriveService{
				shouldFail: true,
				failError:  fmt.Errorf("API error"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := NewClient(context.Background(), "", WithDriveService(tt.mock))
			storage, err := client.GetStorageQuota(context.Background())

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if storage.TotalBytes != tt.wantTotal {
				t.Errorf("expected TotalBytes %d, got %d", tt.wantTotal, storage.TotalBytes)
			}
			if storage.UsedBytes != tt.wantUsed {
				t.Errorf("expected UsedBytes %d, got %d", tt.wantUsed, storage.UsedBytes)
			}
			if storage.AvailableBytes != tt.wantAvailable {
				t.Errorf("expected AvailableBytes %d, got %d", tt.wantAvailable, storage.AvailableBytes)
			}
		})
	}
}

func TestClient_ListArchives(t *testing.T) {
	testTime := time.Date(2025, 6, 7, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mock      *mockDriveService
		wantCount int
		wantFirst string
		wantErr   bool
	}{
		{
			name: "lists archives sorted by name",
			mock: &mockDriveService{
				files: []*drive.File{
					{Id: "file-1", Name: "music_rounds_20250517_190000.zip", MimeType: "application/zip", Size: 1000000, CreatedTime: testTime.Format(time.RFC3339)},
					{Id: "file-2", Name: "music_rounds_20250524_190000.zip", MimeType: "application/zip", Size: 2000000, CreatedTime: testTime.Format(time.RFC3339)},
					{Id: "file-3", Name: "music_rounds_20250607_153000.zip", MimeType: "application/zip", Size: 3000000, CreatedTime: testTime.Format(time.RFC3339)},
				},
			},
			wantCount: 3,
			wantFirst: "music_rounds_20250517_190000.zip",
			wantErr:   false,
		},
		{
			name: "returns empty list for folder with no archives",
			mock: &mockDriveService{
				files: []*drive.File{},
			},
			wantCount: 0,
			wantErr:   false,
		},
		{
			name: "handles API error",
			mock: &mockDriveService{
				shouldFail: true,
				failError:  fmt.Errorf("API error"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := NewClient(context.Background(), "", WithDriveService(tt.mock))
			files, err := client.ListArchives(context.Background(), "test-folder")

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if !strings.Contains(tt.mock.lastQuery, "mimeType = 'application/zip'") {
				t.Errorf("query %q does not filter by zip mime type", tt.mock.lastQuery)
			}
			if tt.mock.lastOrderBy != "name" {
				t.Errorf("expected ordering by name, got %q", tt.mock.lastOrderBy)
			}

			if len(files) != tt.wantCount {
				t.Errorf("expected %d files, got %d", tt.wantCount, len(files))
			}

			if tt.wantFirst != "" && len(files) > 0 && files[0].Name != tt.wantFirst {
				t.Errorf("expected first file %q, got %q", tt.wantFirst, files[0].Name)
			}
		})
	}
}

func TestClient_UploadAndShare(t *testing.T) {
	req := distribution.UploadRequest{
		LocalPath: "/tmp/music_rounds_20250607_153000.zip",
		FileName:  "music_rounds_20250607_153000.zip",
		FolderID:  "test-folder-id",
		MimeType:  distribution.MimeTypeZip,
	}

	t.Run("uploads and shares successfully", func(t *testing.T) {
		mock := &mockDriveService{}
		client, _ := NewClient(context.Background(), "", WithDriveService(mock))

		result, err := client.UploadAndShare(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if mock.lastUploadName != req.FileName {
			t.Errorf("expected upload name %q, got %q", req.FileName, mock.lastUploadName)
		}
		if mock.lastUploadMime != distribution.MimeTypeZip {
			t.Errorf("expected mime type %q, got %q", distribution.MimeTypeZip, mock.lastUploadMime)
		}
		if mock.lastFolderID != req.FolderID {
			t.Errorf("expected folder %q, got %q", req.FolderID, mock.lastFolderID)
		}
		if mock.lastPermission == nil {
			t.Fatal("expected a permission to be created")
		}
		if mock.lastPermission.Role != "reader" || mock.lastPermission.Type != "anyone" {
			t.Errorf("expected anyone-with-link reader permission, got role=%q type=%q",
				mock.lastPermission.Role, mock.lastPermission.Type)
		}

		if result.FileID != "uploaded-file-id" {
			t.Errorf("expected FileID 'uploaded-file-id', got %q", result.FileID)
		}
		if result.ShareableURL != "https://drive.google.com/file/d/uploaded-file-id/view" {
			t.Errorf("unexpected ShareableURL %q", result.ShareableURL)
		}
		if result.Size != 1024 {
			t.Errorf("expected Size 1024, got %d", result.Size)
		}
	})

	t.Run("builds link when API omits webViewLink", func(t *testing.T) {
		mock := &mockDriveService{
			uploaded: &drive.File{
				Id:   "bare-id",
				Name: req.FileName,
				Size: 2048,
			},
		}
		client, _ := NewClient(context.Background(), "", WithDriveService(mock))

		result, err := client.UploadAndShare(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "https://drive.google.com/file/d/bare-id/view?usp=sharing"
		if result.ShareableURL != want {
			t.Errorf("expected fallback URL %q, got %q", want, result.ShareableURL)
		}
	})

	t.Run("handles API error", func(t *testing.T) {
		mock := &mockDriveService{
			shouldFail: true,
			failError:  fmt.Errorf("API error"),
		}
		client, _ := NewClient(context.Background(), "", WithDriveService(mock))

		if _, err := client.UploadAndShare(context.Background(), req); err == nil {
			t.Error("expected error but got none")
		}
	})
}

func TestClient_DeletePermanently(t *testing.T) {
	tests := []struct {
		name    string
		mock    *mockDriveService
		fileID  string
		wantErr bool
	}{
		{
			name:    "deletes file successfully",
			mock:    &mockDriveService{},
			fileID:  "file-123",
			wantErr: false,
		},
		{
			name: "handles API error",
			mock: &mockDriveService{
				shouldFail: true,
				failError:  fmt.Errorf("API error"),
			},
			fileID:  "file-123",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := NewClient(context.Background(), "", WithDriveService(tt.mock))
			err := client.DeletePermanently(context.Background(), tt.fileID)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			// Verify the file was marked as deleted in the mock
			found := false
			for _, id := range tt.mock.deletedFileIDs {
				if id == tt.fileID {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected file %q to be deleted", tt.fileID)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantZero bool
	}{
		{
			name:     "valid RFC3339 time",
			input:    "2025-06-07T15:30:00Z",
			wantZero: false,
		},
		{
			name:     "invalid time format",
			input:    "invalid",
			wantZero: true,
		},
		{
			name:     "empty string",
			input:    "",
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseTime(tt.input)
			if tt.wantZero && !result.IsZero() {
				t.Error("expected zero time, got non-zero")
			}
			if !tt.wantZero && result.IsZero() {
				t.Error("expected non-zero time, got zero")
			}
		})
	}
}
