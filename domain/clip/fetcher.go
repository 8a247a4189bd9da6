package clip

import "context"

// FetchWindow bounds a fetch to the stretch of the source the clip needs,
// for fetchers that support partial retrieval.
type FetchWindow struct {
	StartSeconds    int
	DurationSeconds int
}

// FetchRequest describes one source download.
type FetchRequest struct {
	URL     string
	DestDir string
	Window  *FetchWindow // nil means fetch the full source
}

// FetchResult is the locally stored media plus any resolved metadata.
// StartsAt records where in the original media the local file begins: zero
// for a full fetch, the window start when the fetcher honored req.Window.
type FetchResult struct {
	Path     string
	Title    string
	StartsAt int
}

// Fetcher defines the interface for resolving a video URL to a local media
// file. This is a port that can be implemented by different infrastructure
// adapters.
type Fetcher interface {
	// Fetch downloads the media for req.URL into req.DestDir. Failures are
	// classified against ErrNotFound, ErrNetwork, and ErrRestricted.
	Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error)
}
