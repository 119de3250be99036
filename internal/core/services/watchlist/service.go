// Package watchlist implements the analyst's tracked-CVE list and notes on
// top of the persistence ports.
package watchlist

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/threatlens/threatlens/internal/core/domain"
	"github.com/threatlens/threatlens/internal/core/ports"
)

// ErrInvalidCVEID rejects identifiers that do not match the canonical shape.
var ErrInvalidCVEID = errors.New("invalid CVE identifier")

// Service coordinates watchlist and note operations. Identifiers are
// case-normalized before they reach storage.
type Service struct {
	watchlist ports.WatchlistRepository
	notes     ports.NoteRepository
}

// NewService creates a watchlist service over the given repositories.
func NewService(watchlist ports.WatchlistRepository, notes ports.NoteRepository) *Service {
	return &Service{watchlist: watchlist, notes: notes}
}

// Add tracks a CVE.
func (s *Service) Add(cveID string) error {
	id, err := validID(cveID)
	if err != nil {
		return err
	}
	return s.watchlist.Add(domain.WatchlistItem{CVEID: id, AddedAt: time.Now()})
}

// Remove untracks a CVE.
func (s *Service) Remove(cveID string) error {
	id, err := validID(cveID)
	if err != nil {
		return err
	}
	return s.watchlist.Remove(id)
}

// IsTracked reports whether a CVE is on the watchlist.
func (s *Service) IsTracked(cveID string) (bool, error) {
	id, err := validID(cveID)
	if err != nil {
		return false, err
	}
	return s.watchlist.Contains(id)
}

// List returns the tracked identifiers, oldest first.
func (s *Service) List() ([]domain.WatchlistItem, error) {
	return s.watchlist.List()
}

// SaveNote creates or updates the note attached to a CVE. The note id is
// stable across updates.
func (s *Service) SaveNote(cveID, body string) (domain.AnalystNote, error) {
	id, err := validID(cveID)
	if err != nil {
		return domain.AnalystNote{}, err
	}

	note := domain.AnalystNote{
		ID:        uuid.NewString(),
		CVEID:     id,
		Body:      body,
		UpdatedAt: time.Now(),
	}
	if existing, err := s.notes.Get(id); err == nil && existing != nil {
		note.ID = existing.ID
	}

	if err := s.notes.Save(note); err != nil {
		return domain.AnalystNote{}, err
	}
	return note, nil
}

// Note returns the note for a CVE, or nil when none exists.
func (s *Service) Note(cveID string) (*domain.AnalystNote, error) {
	id, err := validID(cveID)
	if err != nil {
		return nil, err
	}
	return s.notes.Get(id)
}

// AllNotes returns every stored note.
func (s *Service) AllNotes() ([]domain.AnalystNote, error) {
	return s.notes.All()
}

func validID(cveID string) (string, error) {
	id := domain.NormalizeCVEID(cveID)
	if !domain.IsValidCVEID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCVEID, cveID)
	}
	return id, nil
}
