package track

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Clip duration bounds in seconds. Requests outside the bounds are clamped
// silently; a track added without a duration gets the default.
const (
	MinDuration     = 12
	MaxDuration     = 20
	DefaultDuration = 15
)

// segmentRegex matches one non-negative integer timestamp segment
var segmentRegex = regexp.MustCompile(`^\d+$`)

// ParseOffset parses a start offset in one of three forms: plain seconds
// ("83"), "M:SS", or "H:MM:SS". Minutes and seconds segments must be below
// 60; hours are unbounded. Returns the offset as total seconds.
func ParseOffset(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, &InputError{Input: text, Reason: "empty"}
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) > 3 {
		return 0, &InputError{Input: text, Reason: "expected seconds, M:SS, or H:MM:SS"}
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		if !segmentRegex.MatchString(part) {
			return 0, &InputError{Input: text, Reason: "expected seconds, M:SS, or H:MM:SS"}
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return 0, &InputError{Input: text, Reason: "expected seconds, M:SS, or H:MM:SS"}
		}
		values[i] = v
	}

	switch len(values) {
	case 1:
		return values[0], nil
	case 2:
		if values[0] > 59 {
			return 0, &InputError{Input: text, Reason: "minutes must be 0-59"}
		}
		if values[1] > 59 {
			return 0, &InputError{Input: text, Reason: "seconds must be 0-59"}
		}
		return values[0]*60 + values[1], nil
	default:
		if values[1] > 59 {
			return 0, &InputError{Input: text, Reason: "minutes must be 0-59"}
		}
		if values[2] > 59 {
			return 0, &InputError{Input: text, Reason: "seconds must be 0-59"}
		}
		return values[0]*3600 + values[1]*60 + values[2], nil
	}
}

// FormatOffset renders a non-negative offset as "H:MM:SS". The output parses
// back to the same value through ParseOffset.
func FormatOffset(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

// ClampDuration forces a requested clip duration into the allowed bounds,
// returning the nearest bound for out-of-range values. Clamping is silent
// policy, not an error.
func ClampDuration(requested int) int {
	if requested < MinDuration {
		return MinDuration
	}
	if requested > MaxDuration {
		return MaxDuration
	}
	return requested
}
