package track

import (
	"strings"
	"testing"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
		errMsg  string
	}{
		{
			name:  "plain seconds",
			input: "83",
			want:  83,
		},
		{
			name:  "zero seconds",
			input: "0",
			want:  0,
		},
		{
			name:  "minutes and seconds",
			input: "1:23",
			want:  83,
		},
		{
			name:  "padded minutes",
			input: "01:23",
			want:  83,
		},
		{
			name:  "max minutes form",
			input: "59:59",
			want:  3599,
		},
		{
			name:  "hours minutes seconds",
			input: "1:02:03",
			want:  3723,
		},
		{
			name:  "large hours",
			input: "99:00:00",
			want:  356400,
		},
		{
			name:  "surrounding whitespace",
			input: "  2:30 ",
			want:  150,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
			errMsg:  "empty",
		},
		{
			name:    "not a number",
			input:   "abc",
			wantErr: true,
			errMsg:  "expected seconds",
		},
		{
			name:    "negative seconds",
			input:   "-5",
			wantErr: true,
			errMsg:  "expected seconds",
		},
		{
			name:    "too many segments",
			input:   "1:2:3:4",
			wantErr: true,
			errMsg:  "expected seconds",
		},
		{
			name:    "empty segment",
			input:   "1::30",
			wantErr: true,
			errMsg:  "expected seconds",
		},
		{
			name:    "minutes too high in M:SS",
			input:   "60:00",
			wantErr: true,
			errMsg:  "minutes must be 0-59",
		},
		{
			name:    "seconds too high in M:SS",
			input:   "1:60",
			wantErr: true,
			errMsg:  "seconds must be 0-59",
		},
		{
			name:    "minutes too high in H:MM:SS",
			input:   "1:60:00",
			wantErr: true,
			errMsg:  "minutes must be 0-59",
		},
		{
			name:    "seconds too high in H:MM:SS",
			input:   "1:00:60",
			wantErr: true,
			errMsg:  "seconds must be 0-59",
		},
		{
			name:    "decimal seconds",
			input:   "83.5",
			wantErr: true,
			errMsg:  "expected seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOffset(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseOffset(%q) expected error, got nil", tt.input)
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ParseOffset(%q) error = %v, want error containing %q", tt.input, err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseOffset(%q) unexpected error: %v", tt.input, err)
				return
			}

			if got != tt.want {
				t.Errorf("ParseOffset(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatOffsetRoundTrip(t *testing.T) {
	seconds := []int{0, 1, 59, 60, 83, 3599, 3600, 3723, 86399, 356400}

	for _, want := range seconds {
		formatted := FormatOffset(want)
		got, err := ParseOffset(formatted)
		if err != nil {
			t.Errorf("ParseOffset(FormatOffset(%d)) unexpected error: %v", want, err)
			continue
		}
		if got != want {
			t.Errorf("ParseOffset(FormatOffset(%d)) = %d via %q, want %d", want, got, formatted, want)
		}
	}
}

func TestClampDuration(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{name: "below minimum", requested: 5, want: 12},
		{name: "at minimum", requested: 12, want: 12},
		{name: "in range", requested: 15, want: 15},
		{name: "at maximum", requested: 20, want: 20},
		{name: "above maximum", requested: 45, want: 20},
		{name: "zero", requested: 0, want: 12},
		{name: "negative", requested: -3, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampDuration(tt.requested); got != tt.want {
				t.Errorf("ClampDuration(%d) = %d, want %d", tt.requested, got, tt.want)
			}
		})
	}
}

func TestClampDurationIdempotent(t *testing.T) {
	for requested := -10; requested <= 40; requested++ {
		once := ClampDuration(requested)
		twice := ClampDuration(once)
		if once != twice {
			t.Errorf("ClampDuration(ClampDuration(%d)) = %d, want %d", requested, twice, once)
		}
		if once < MinDuration || once > MaxDuration {
			t.Errorf("ClampDuration(%d) = %d, outside [%d,%d]", requested, once, MinDuration, MaxDuration)
		}
	}
}
