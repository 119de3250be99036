// Package cache provides a TTL-keyed response cache over a persistent
// key/value store. Every operation fails soft: a broken store behaves like an
// empty cache, never like an error.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/threatlens/threatlens/internal/core/domain"
	"github.com/threatlens/threatlens/internal/core/ports"
)

// DefaultTTL is applied when Set is called with a non-positive ttl.
const DefaultTTL = 30 * time.Minute

const keyPrefix = "nvdcache:"

// Entry is the stored envelope. Entries are written once and never mutated;
// expiry is a logical delete enforced (and made physical) on read.
type Entry struct {
	Payload   json.RawMessage `json:"payload"`
	WrittenAt int64           `json:"written_at"` // epoch millis
	TTLMillis int64           `json:"ttl_ms"`
}

// Store is the TTL cache. The zero value is not usable; construct with New.
type Store struct {
	kv         ports.KeyValueStore
	defaultTTL time.Duration
	now        func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.defaultTTL = ttl }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store over the given persistent medium.
func New(kv ports.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		defaultTTL: DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached payload for key, or ok=false when the entry is
// missing, expired or unreadable. Expired entries are purged on read.
func (s *Store) Get(key string) ([]byte, bool) {
	raw, ok, err := s.kv.Get(keyPrefix + key)
	if err != nil || !ok {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Corrupt entry: drop it and report a miss.
		_ = s.kv.Delete(keyPrefix + key)
		return nil, false
	}

	age := s.now().UnixMilli() - entry.WrittenAt
	if age > entry.TTLMillis {
		_ = s.kv.Delete(keyPrefix + key)
		return nil, false
	}
	return entry.Payload, true
}

// Set stores payload under key, overwriting any previous entry. A
// non-positive ttl selects the store default. Write failures are logged and
// swallowed.
func (s *Store) Set(key string, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	entry := Entry{
		Payload:   payload,
		WrittenAt: s.now().UnixMilli(),
		TTLMillis: ttl.Milliseconds(),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.kv.Set(keyPrefix+key, raw); err != nil {
		log.Printf("[CACHE] write failed for %s: %v", key, err)
	}
}

// Clear removes every cache entry. Errors are swallowed.
func (s *Store) Clear() {
	keys, err := s.kv.Keys()
	if err != nil {
		return
	}
	for _, k := range keys {
		if strings.HasPrefix(k, keyPrefix) {
			_ = s.kv.Delete(k)
		}
	}
}

// Count returns the number of stored cache entries, expired or not.
func (s *Store) Count() int {
	keys, err := s.kv.Keys()
	if err != nil {
		return 0
	}
	n := 0
	for _, k := range keys {
		if strings.HasPrefix(k, keyPrefix) {
			n++
		}
	}
	return n
}

// QuerySignature derives the canonical cache key for a query: present
// parameters only, sorted, so equivalent queries share one slot regardless of
// call site or parameter order.
func QuerySignature(q domain.SearchQuery) string {
	var pairs []string
	add := func(k, v string) {
		if v != "" {
			pairs = append(pairs, k+"="+v)
		}
	}
	add("cveId", domain.NormalizeCVEID(q.CVEID))
	add("keyword", strings.ToLower(q.Keyword))
	if q.PageSize > 0 {
		add("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Offset > 0 {
		add("offset", strconv.Itoa(q.Offset))
	}
	add("pubStart", q.PubStart)
	add("pubEnd", q.PubEnd)
	add("modStart", q.ModStart)
	add("modEnd", q.ModEnd)

	sort.Strings(pairs)
	sum := sha256.Sum256([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(sum[:])
}
