package ports

import "github.com/threatlens/threatlens/internal/core/domain"

// KeyValueStore is the persistent string-keyed medium underneath the TTL
// cache. Implementations must survive process restarts; callers above it
// treat every error as a miss or a dropped write.
type KeyValueStore interface {
	// Get returns the stored value, or ok=false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)

	// Set overwrites any existing value for the key.
	Set(key string, value []byte) error

	Delete(key string) error

	// Keys returns all stored keys, in no particular order.
	Keys() ([]string, error)

	Close() error
}

// WatchlistRepository persists the analyst's tracked identifiers.
type WatchlistRepository interface {
	Add(item domain.WatchlistItem) error
	Remove(cveID string) error
	Contains(cveID string) (bool, error)
	List() ([]domain.WatchlistItem, error)
}

// NoteRepository persists analyst notes, one per CVE.
type NoteRepository interface {
	Save(note domain.AnalystNote) error
	// Get returns nil when no note exists for the identifier.
	Get(cveID string) (*domain.AnalystNote, error)
	All() ([]domain.AnalystNote, error)
}
