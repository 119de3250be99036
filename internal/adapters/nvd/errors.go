package nvd

import "errors"

// The only two failures that cross the client boundary. Everything else is
// absorbed into a degraded demo-data result (see Client.Search).
var (
	// ErrRateLimited: the API kept answering 429 after all retries. An API
	// key raises the remote budget from 5 to 50 requests per 30s window.
	ErrRateLimited = errors.New("rate limited by the NVD API: wait a moment or configure an API key")

	// ErrTimeout: a single attempt exceeded its deadline. Not retried; the
	// caller decides whether to try again.
	ErrTimeout = errors.New("request timed out waiting for the NVD API")
)
