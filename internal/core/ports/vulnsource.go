package ports

import (
	"context"

	"github.com/threatlens/threatlens/internal/core/domain"
)

// VulnerabilitySource resolves searches against the upstream vulnerability
// database, whatever the resolution path (network, cache, or bundled data).
type VulnerabilitySource interface {
	// Search returns one page of normalized records. The only errors that
	// cross this boundary are nvd.ErrRateLimited and nvd.ErrTimeout; other
	// failures degrade to the bundled dataset.
	Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error)

	// FetchByID is a convenience lookup; it returns nil when the identifier
	// is unknown upstream.
	FetchByID(ctx context.Context, cveID string) (*domain.VulnerabilityRecord, error)
}

// SettingsStore persists the user configuration the client reads on every
// search.
type SettingsStore interface {
	Load() (domain.Settings, error)
	Save(domain.Settings) error
}
