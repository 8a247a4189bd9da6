package track

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// NormalizedURL is the canonical form of a video URL plus any start offset
// carried in its query parameters.
type NormalizedURL struct {
	Canonical string
	VideoID   string
	Offset    int
	HasOffset bool
}

// videoIDRegex matches the characters YouTube uses in video identifiers
var videoIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NormalizeURL canonicalizes a YouTube watch URL. Long-form hosts
// (youtube.com/watch?v=ID) and short-form hosts (youtu.be/ID) are both
// recognized and rewritten to the short form https://youtu.be/ID with all
// query parameters stripped. A t or time_continue parameter (seconds,
// optional trailing "s") becomes the start offset; a missing or malformed
// parameter leaves HasOffset false, signaling the caller to obtain a manual
// offset. Normalization is idempotent.
func NormalizeURL(raw string) (NormalizedURL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NormalizedURL{}, &URLError{URL: raw, Reason: "empty"}
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return NormalizedURL{}, &URLError{URL: raw, Reason: "not a valid url"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NormalizedURL{}, &URLError{URL: raw, Reason: "expected an http(s) youtube link"}
	}

	id, err := extractVideoID(u)
	if err != nil {
		return NormalizedURL{}, err
	}

	norm := NormalizedURL{
		Canonical: "https://youtu.be/" + id,
		VideoID:   id,
	}
	if offset, ok := extractOffset(u.Query()); ok {
		norm.Offset = offset
		norm.HasOffset = true
	}
	return norm, nil
}

// extractVideoID pulls the video identifier out of a parsed URL, accepting
// both recognized URL shapes.
func extractVideoID(u *url.URL) (string, error) {
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
		if strings.Contains(id, "/") {
			return "", &URLError{URL: u.String(), Reason: "expected a single video id in the path"}
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if strings.Trim(u.Path, "/") != "watch" {
			return "", &URLError{URL: u.String(), Reason: "expected a /watch path"}
		}
		id = u.Query().Get("v")
	default:
		return "", &URLError{URL: u.String(), Reason: "not a youtube host"}
	}

	if id == "" {
		return "", &URLError{URL: u.String(), Reason: "missing video id"}
	}
	if !videoIDRegex.MatchString(id) {
		return "", &URLError{URL: u.String(), Reason: "illegal characters in video id"}
	}
	return id, nil
}

// extractOffset reads the t (or legacy time_continue) query parameter.
// Malformed values are treated as absent rather than as errors.
func extractOffset(q url.Values) (int, bool) {
	raw := q.Get("t")
	if raw == "" {
		raw = q.Get("time_continue")
	}
	if raw == "" {
		return 0, false
	}

	raw = strings.TrimSuffix(raw, "s")
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return seconds, true
}
