// Package nvd implements the acquisition client and normalizer for the NVD
// CVE API 2.0.
package nvd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/threatlens/threatlens/internal/core/domain"
	"github.com/threatlens/threatlens/internal/core/ports"
	"github.com/threatlens/threatlens/internal/core/services/cache"
	"github.com/threatlens/threatlens/internal/telemetry"
)

const (
	defaultBaseURL  = "https://services.nvd.nist.gov/rest/json/cves/2.0"
	defaultPageSize = 20

	// Every attempt is bounded by this deadline; exceeding it surfaces
	// ErrTimeout without retrying.
	requestTimeout = 15 * time.Second

	// 429 handling: up to 2 extra attempts, 2s backoff doubling per
	// attempt, plus up to 1s of random jitter each time.
	maxRetries  = 2
	backoffBase = 2 * time.Second
	maxJitter   = time.Second
)

// Client talks to the vulnerability database. Callers are expected to issue
// searches sequentially; the external rate-limit budget (5 requests per 30s
// without a key, 50 with one) is enforced remotely and respected here by not
// fanning out.
type Client struct {
	baseURL    string
	httpClient *http.Client
	settings   ports.SettingsStore
	cache      *cache.Store
	timeout    time.Duration
	strict     bool
	tracer     trace.Tracer

	// sleep is swapped out in tests to skip real backoff waits.
	sleep func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint, e.g. a test stub.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRequestTimeout overrides the per-attempt deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithStrictErrors disables the silent demo fallback: absorbed failures are
// returned to the caller instead of being masked by bundled data.
func WithStrictErrors(strict bool) Option {
	return func(c *Client) { c.strict = strict }
}

// NewClient creates an acquisition client reading configuration from the
// settings store and caching raw responses in cacheStore.
func NewClient(settings ports.SettingsStore, cacheStore *cache.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		settings: settings,
		cache:    cacheStore,
		timeout:  requestTimeout,
		tracer:   otel.Tracer("threatlens/nvd"),
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return c
}

var _ ports.VulnerabilitySource = (*Client)(nil)

// Search resolves a query via demo data, cache or the live API, in that
// order. Only ErrRateLimited and ErrTimeout propagate; any other failure
// degrades to the bundled dataset unless strict errors are enabled.
func (c *Client) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	ctx, span := c.tracer.Start(ctx, "nvd.Search")
	defer span.End()

	settings, err := c.settings.Load()
	if err != nil {
		log.Printf("[NVD] settings unavailable, using defaults: %v", err)
		settings = domain.Settings{}
	}

	if settings.DemoMode {
		span.SetAttributes(attribute.String("resolution", "demo"))
		return demoSearch(query, domain.StatusDemo), nil
	}

	key := cache.QuerySignature(query)
	if payload, ok := c.cache.Get(key); ok {
		var raw APIResponse
		if err := json.Unmarshal(payload, &raw); err == nil {
			telemetry.CacheHits.Inc()
			span.SetAttributes(attribute.String("resolution", "cache"))
			return c.resultFrom(&raw, query, domain.StatusCache), nil
		}
	}
	telemetry.CacheMisses.Inc()

	raw, body, err := c.fetch(ctx, query, settings.APIKey)
	if err != nil {
		if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout) {
			return nil, err
		}
		if c.strict {
			return nil, err
		}
		// Degrade instead of failing: the analyst still gets data to
		// work with, tagged so the UI can tell.
		log.Printf("[NVD] request failed, serving bundled dataset: %v", err)
		telemetry.DemoFallbacks.Inc()
		span.SetAttributes(attribute.String("resolution", "degraded"))
		return demoSearch(query, domain.StatusDegraded), nil
	}

	c.cache.Set(key, body, 0)
	span.SetAttributes(attribute.String("resolution", "live"))
	return c.resultFrom(raw, query, domain.StatusLive), nil
}

// FetchByID looks up a single record; nil means the identifier is unknown.
func (c *Client) FetchByID(ctx context.Context, cveID string) (*domain.VulnerabilityRecord, error) {
	result, err := c.Search(ctx, domain.SearchQuery{CVEID: cveID})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, nil
	}
	return &result.Records[0], nil
}

func (c *Client) resultFrom(raw *APIResponse, query domain.SearchQuery, status domain.ResultStatus) *domain.SearchResult {
	records := ParseResponse(raw)
	telemetry.RecordsNormalized.Add(float64(len(records)))
	return &domain.SearchResult{
		Records:      records,
		TotalResults: raw.TotalResults,
		Offset:       raw.StartIndex,
		PageSize:     raw.ResultsPerPage,
		Status:       status,
	}
}

// fetch performs the network request with bounded 429 retries. It returns the
// decoded response together with the raw body for caching.
func (c *Client) fetch(ctx context.Context, query domain.SearchQuery, apiKey string) (*APIResponse, []byte, error) {
	endpoint, err := c.buildURL(query)
	if err != nil {
		return nil, nil, err
	}

	delay := backoffBase
	for attempt := 0; ; attempt++ {
		body, status, err := c.doAttempt(ctx, endpoint, apiKey)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				telemetry.APIRequests.WithLabelValues("timeout").Inc()
			} else {
				telemetry.APIRequests.WithLabelValues("error").Inc()
			}
			return nil, nil, err
		}

		if status == http.StatusTooManyRequests {
			if attempt == maxRetries {
				telemetry.APIRequests.WithLabelValues("rate_limited").Inc()
				return nil, nil, ErrRateLimited
			}
			telemetry.RateLimitRetries.Inc()
			jitter := time.Duration(rand.Int63n(int64(maxJitter)))
			c.sleep(delay + jitter)
			delay *= 2
			continue
		}

		if status != http.StatusOK {
			telemetry.APIRequests.WithLabelValues("error").Inc()
			return nil, nil, fmt.Errorf("nvd api: unexpected status %d", status)
		}

		var raw APIResponse
		if err := json.Unmarshal(body, &raw); err != nil {
			telemetry.APIRequests.WithLabelValues("error").Inc()
			return nil, nil, fmt.Errorf("nvd api: malformed response: %w", err)
		}
		telemetry.APIRequests.WithLabelValues("ok").Inc()
		return &raw, body, nil
	}
}

// doAttempt issues one bounded request and returns the body and status code.
func (c *Client) doAttempt(ctx context.Context, endpoint, apiKey string) ([]byte, int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("nvd api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// The key only raises the remote budget; the request is otherwise
	// identical with or without it.
	if apiKey != "" {
		req.Header.Set("apiKey", apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, 0, fmt.Errorf("%w (after %s)", ErrTimeout, c.timeout)
		}
		return nil, 0, fmt.Errorf("nvd api: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, 0, fmt.Errorf("%w (after %s)", ErrTimeout, c.timeout)
		}
		return nil, 0, fmt.Errorf("nvd api: read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// buildURL sets only the parameters present in the query.
func (c *Client) buildURL(query domain.SearchQuery) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("nvd api: bad base url: %w", err)
	}

	params := url.Values{}
	if query.CVEID != "" {
		params.Set("cveId", domain.NormalizeCVEID(query.CVEID))
	}
	if query.Keyword != "" {
		params.Set("keywordSearch", query.Keyword)
	}
	if query.PageSize > 0 {
		params.Set("resultsPerPage", strconv.Itoa(query.PageSize))
	}
	if query.Offset > 0 {
		params.Set("startIndex", strconv.Itoa(query.Offset))
	}
	if query.PubStart != "" {
		params.Set("pubStartDate", query.PubStart)
	}
	if query.PubEnd != "" {
		params.Set("pubEndDate", query.PubEnd)
	}
	if query.ModStart != "" {
		params.Set("lastModStartDate", query.ModStart)
	}
	if query.ModEnd != "" {
		params.Set("lastModEndDate", query.ModEnd)
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}
