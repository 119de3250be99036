package nvd

import (
	_ "embed"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/threatlens/threatlens/internal/core/domain"
)

// Bundled dataset in the raw upstream schema. It backs demo mode and the
// degraded fallback path, so the caller always has something to render.
//
//go:embed demodata.json
var demoJSON []byte

var (
	demoOnce    sync.Once
	demoRecords []domain.VulnerabilityRecord
)

// demoDataset normalizes the bundled dataset once and reuses it after.
func demoDataset() []domain.VulnerabilityRecord {
	demoOnce.Do(func() {
		var raw APIResponse
		if err := json.Unmarshal(demoJSON, &raw); err != nil {
			// The dataset ships inside the binary; failing to parse it
			// is a build defect, not a runtime condition.
			log.Printf("[NVD] demo dataset unreadable: %v", err)
			demoRecords = []domain.VulnerabilityRecord{}
			return
		}
		demoRecords = ParseResponse(&raw)
	})
	return demoRecords
}

// demoSearch serves a query entirely from the bundled dataset: exact-id match
// (case-insensitive) or substring match on id/description, then
// offset/pageSize windowing. It never touches network or cache.
func demoSearch(q domain.SearchQuery, status domain.ResultStatus) *domain.SearchResult {
	all := demoDataset()

	filtered := all
	switch {
	case q.CVEID != "":
		id := domain.NormalizeCVEID(q.CVEID)
		filtered = nil
		for _, r := range all {
			if r.ID == id {
				filtered = append(filtered, r)
			}
		}
	case q.Keyword != "":
		kw := strings.ToLower(q.Keyword)
		filtered = nil
		for _, r := range all {
			if strings.Contains(strings.ToLower(r.ID), kw) ||
				strings.Contains(strings.ToLower(r.Description), kw) {
				filtered = append(filtered, r)
			}
		}
	}

	offset := q.Offset
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	page := []domain.VulnerabilityRecord{}
	if offset < len(filtered) {
		end := offset + pageSize
		if end > len(filtered) {
			end = len(filtered)
		}
		page = append(page, filtered[offset:end]...)
	}

	return &domain.SearchResult{
		Records:      page,
		TotalResults: len(filtered),
		Offset:       offset,
		PageSize:     pageSize,
		Status:       status,
	}
}
