package watchlist

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatlens/threatlens/internal/core/domain"
)

type memWatchlist struct {
	items []domain.WatchlistItem
}

func (m *memWatchlist) Add(item domain.WatchlistItem) error {
	for _, it := range m.items {
		if it.CVEID == item.CVEID {
			return nil
		}
	}
	m.items = append(m.items, item)
	return nil
}

func (m *memWatchlist) Remove(cveID string) error {
	out := m.items[:0]
	for _, it := range m.items {
		if it.CVEID != cveID {
			out = append(out, it)
		}
	}
	m.items = out
	return nil
}

func (m *memWatchlist) Contains(cveID string) (bool, error) {
	for _, it := range m.items {
		if it.CVEID == cveID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memWatchlist) List() ([]domain.WatchlistItem, error) {
	return append([]domain.WatchlistItem(nil), m.items...), nil
}

type memNotes struct {
	notes map[string]domain.AnalystNote
}

func newMemNotes() *memNotes {
	return &memNotes{notes: make(map[string]domain.AnalystNote)}
}

func (m *memNotes) Save(note domain.AnalystNote) error {
	m.notes[note.CVEID] = note
	return nil
}

func (m *memNotes) Get(cveID string) (*domain.AnalystNote, error) {
	note, ok := m.notes[cveID]
	if !ok {
		return nil, nil
	}
	return &note, nil
}

func (m *memNotes) All() ([]domain.AnalystNote, error) {
	out := make([]domain.AnalystNote, 0, len(m.notes))
	for _, note := range m.notes {
		out = append(out, note)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CVEID < out[j].CVEID })
	return out, nil
}

func newTestService() (*Service, *memWatchlist, *memNotes) {
	wl := &memWatchlist{}
	notes := newMemNotes()
	return NewService(wl, notes), wl, notes
}

func TestAddNormalizesIdentifier(t *testing.T) {
	svc, wl, _ := newTestService()

	require.NoError(t, svc.Add("  cve-2021-44228 "))

	require.Len(t, wl.items, 1)
	assert.Equal(t, "CVE-2021-44228", wl.items[0].CVEID)
	assert.False(t, wl.items[0].AddedAt.IsZero())
}

func TestAddRejectsMalformedIdentifier(t *testing.T) {
	svc, wl, _ := newTestService()

	err := svc.Add("CVE-21-1")
	assert.ErrorIs(t, err, ErrInvalidCVEID)
	assert.Empty(t, wl.items)
}

func TestRemoveAndIsTracked(t *testing.T) {
	svc, _, _ := newTestService()

	require.NoError(t, svc.Add("CVE-2019-0708"))

	tracked, err := svc.IsTracked("cve-2019-0708")
	require.NoError(t, err)
	assert.True(t, tracked)

	require.NoError(t, svc.Remove("CVE-2019-0708"))

	tracked, err = svc.IsTracked("CVE-2019-0708")
	require.NoError(t, err)
	assert.False(t, tracked)
}

func TestSaveNoteKeepsStableID(t *testing.T) {
	svc, _, _ := newTestService()

	first, err := svc.SaveNote("cve-2021-3156", "check patched builds")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "CVE-2021-3156", first.CVEID)

	second, err := svc.SaveNote("CVE-2021-3156", "hosts patched 2021-02-03")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "hosts patched 2021-02-03", second.Body)
}

func TestNoteMissingReturnsNil(t *testing.T) {
	svc, _, _ := newTestService()

	note, err := svc.Note("CVE-2014-0160")
	require.NoError(t, err)
	assert.Nil(t, note)
}

func TestAllNotes(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SaveNote("CVE-2014-0160", "legacy fleet only")
	require.NoError(t, err)
	_, err = svc.SaveNote("CVE-2023-4863", "browser update rollout")
	require.NoError(t, err)

	notes, err := svc.AllNotes()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "CVE-2014-0160", notes[0].CVEID)
	assert.Equal(t, "CVE-2023-4863", notes[1].CVEID)
}
