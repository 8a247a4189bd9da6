package clip

import (
	"strings"
	"unicode"
)

// maxTitleLength caps derived filenames to keep archive entries readable
const maxTitleLength = 40

// SanitizeTitle reduces a video title to a filesystem-safe name: letters,
// digits, dashes, and underscores survive, spaces become underscores, and
// the result is capped at 40 characters. Returns "" when nothing survives.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimRight(b.String(), " ")
	cleaned = strings.ReplaceAll(cleaned, " ", "_")

	runes := []rune(cleaned)
	if len(runes) > maxTitleLength {
		runes = runes[:maxTitleLength]
	}
	return string(runes)
}

// Filename derives the clip filename from title metadata, falling back to
// the video identifier when no usable title is available.
func Filename(title, videoID string) string {
	name := SanitizeTitle(title)
	if name == "" {
		name = videoID
	}
	return name + ".mp3"
}
