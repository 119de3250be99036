package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/threatlens/threatlens/internal/core/domain"
)

func newTestStore(t *testing.T) *UserDataStore {
	t.Helper()
	store, err := NewUserDataStore(filepath.Join(t.TempDir(), "userdata.db"))
	if err != nil {
		t.Fatalf("Failed to create user data store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestWatchlistRoundTrip(t *testing.T) {
	repo := newTestStore(t).Watchlist()

	if err := repo.Add(domain.WatchlistItem{CVEID: "CVE-2021-44228", AddedAt: time.Now()}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	tracked, err := repo.Contains("CVE-2021-44228")
	if err != nil || !tracked {
		t.Errorf("Contains = %v, %v; want true", tracked, err)
	}

	items, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].CVEID != "CVE-2021-44228" {
		t.Errorf("List = %+v", items)
	}

	if err := repo.Remove("CVE-2021-44228"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if tracked, _ := repo.Contains("CVE-2021-44228"); tracked {
		t.Error("still tracked after Remove")
	}
}

func TestWatchlistReAddIsNoOp(t *testing.T) {
	repo := newTestStore(t).Watchlist()

	first := domain.WatchlistItem{CVEID: "CVE-2014-0160", AddedAt: time.Now().Add(-time.Hour)}
	if err := repo.Add(first); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := repo.Add(domain.WatchlistItem{CVEID: "CVE-2014-0160", AddedAt: time.Now()}); err != nil {
		t.Fatalf("second Add failed: %v", err)
	}

	items, _ := repo.List()
	if len(items) != 1 {
		t.Fatalf("got %d items; want 1", len(items))
	}
	// Original AddedAt survives the duplicate insert.
	if !items[0].AddedAt.Equal(first.AddedAt) {
		t.Errorf("AddedAt overwritten: %v", items[0].AddedAt)
	}
}

func TestWatchlistOrder(t *testing.T) {
	repo := newTestStore(t).Watchlist()

	base := time.Now()
	repo.Add(domain.WatchlistItem{CVEID: "CVE-2020-0002", AddedAt: base})
	repo.Add(domain.WatchlistItem{CVEID: "CVE-2020-0001", AddedAt: base.Add(-time.Hour)})

	items, _ := repo.List()
	if len(items) != 2 || items[0].CVEID != "CVE-2020-0001" {
		t.Errorf("List not ordered oldest first: %+v", items)
	}
}

func TestNoteUpsert(t *testing.T) {
	repo := newTestStore(t).Notes()

	err := repo.Save(domain.AnalystNote{
		ID:        "note-1",
		CVEID:     "CVE-2021-44228",
		Body:      "patch everything",
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	err = repo.Save(domain.AnalystNote{
		ID:        "note-1",
		CVEID:     "CVE-2021-44228",
		Body:      "patched, verifying",
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	note, err := repo.Get("CVE-2021-44228")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if note == nil || note.Body != "patched, verifying" {
		t.Errorf("Get = %+v; want updated body", note)
	}

	all, _ := repo.All()
	if len(all) != 1 {
		t.Errorf("got %d notes; want 1 after upsert", len(all))
	}
}

func TestNoteMissing(t *testing.T) {
	repo := newTestStore(t).Notes()

	note, err := repo.Get("CVE-1999-0001")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if note != nil {
		t.Errorf("Get = %+v; want nil", note)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	repo := newTestStore(t).Settings()

	// Fresh database yields defaults.
	settings, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.APIKey != "" || settings.DemoMode {
		t.Errorf("fresh settings = %+v; want zero value", settings)
	}

	if err := repo.Save(domain.Settings{APIKey: "key-123", DemoMode: true}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	settings, err = repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.APIKey != "key-123" || !settings.DemoMode {
		t.Errorf("Load = %+v", settings)
	}

	// Overwrite.
	repo.Save(domain.Settings{APIKey: "key-456", DemoMode: false})
	settings, _ = repo.Load()
	if settings.APIKey != "key-456" || settings.DemoMode {
		t.Errorf("Load after overwrite = %+v", settings)
	}
}
