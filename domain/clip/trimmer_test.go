package clip

import (
	"strings"
	"testing"
)

func TestTrimRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     TrimRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid request",
			req:  TrimRequest{SourcePath: "in.m4a", OutputPath: "out.mp3", StartSeconds: 83, DurationSeconds: 15},
		},
		{
			name: "zero start is valid",
			req:  TrimRequest{SourcePath: "in.m4a", OutputPath: "out.mp3", StartSeconds: 0, DurationSeconds: 12},
		},
		{
			name:    "missing source",
			req:     TrimRequest{OutputPath: "out.mp3", DurationSeconds: 15},
			wantErr: true,
			errMsg:  "source path",
		},
		{
			name:    "missing output",
			req:     TrimRequest{SourcePath: "in.m4a", DurationSeconds: 15},
			wantErr: true,
			errMsg:  "output path",
		},
		{
			name:    "negative start",
			req:     TrimRequest{SourcePath: "in.m4a", OutputPath: "out.mp3", StartSeconds: -1, DurationSeconds: 15},
			wantErr: true,
			errMsg:  "must not be negative",
		},
		{
			name:    "zero duration",
			req:     TrimRequest{SourcePath: "in.m4a", OutputPath: "out.mp3", StartSeconds: 10},
			wantErr: true,
			errMsg:  "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error, got nil")
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %v, want error containing %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
