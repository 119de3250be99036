package storage

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/threatlens/threatlens/internal/core/domain"
	"github.com/threatlens/threatlens/internal/core/ports"
)

// UserDataStore persists the analyst-authored state (watchlist, notes,
// settings) using GORM and SQLite. The per-concern repositories share one
// connection.
type UserDataStore struct {
	db *gorm.DB
}

// WatchlistModel is the GORM model for tracked identifiers.
type WatchlistModel struct {
	CVEID   string    `gorm:"primaryKey;column:cve_id"`
	AddedAt time.Time `gorm:"column:added_at"`
}

func (WatchlistModel) TableName() string { return "watchlist" }

// NoteModel is the GORM model for analyst notes, one per CVE.
type NoteModel struct {
	ID        string    `gorm:"primaryKey"`
	CVEID     string    `gorm:"uniqueIndex;column:cve_id"`
	Body      string    `gorm:"column:body"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (NoteModel) TableName() string { return "notes" }

// SettingsModel holds the single settings row.
type SettingsModel struct {
	ID       uint   `gorm:"primaryKey"`
	APIKey   string `gorm:"column:api_key"`
	DemoMode bool   `gorm:"column:demo_mode"`
}

func (SettingsModel) TableName() string { return "settings" }

// NewUserDataStore initializes the database and migrates the schema.
func NewUserDataStore(path string) (*UserDataStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open user database: %w", err)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		log.Printf("[STORE] tracing plugin unavailable: %v", err)
	}

	if err := db.AutoMigrate(&WatchlistModel{}, &NoteModel{}, &SettingsModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &UserDataStore{db: db}, nil
}

// Watchlist returns the watchlist repository.
func (s *UserDataStore) Watchlist() *WatchlistRepo { return &WatchlistRepo{db: s.db} }

// Notes returns the note repository.
func (s *UserDataStore) Notes() *NoteRepo { return &NoteRepo{db: s.db} }

// Settings returns the settings store.
func (s *UserDataStore) Settings() *SettingsRepo { return &SettingsRepo{db: s.db} }

// Close releases the underlying connection.
func (s *UserDataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WatchlistRepo implements ports.WatchlistRepository.
type WatchlistRepo struct {
	db *gorm.DB
}

// Add stores a tracked identifier; re-adding is a no-op.
func (r *WatchlistRepo) Add(item domain.WatchlistItem) error {
	model := WatchlistModel{CVEID: item.CVEID, AddedAt: item.AddedAt}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error
}

// Remove drops a tracked identifier.
func (r *WatchlistRepo) Remove(cveID string) error {
	return r.db.Delete(&WatchlistModel{}, "cve_id = ?", cveID).Error
}

// Contains reports whether an identifier is tracked.
func (r *WatchlistRepo) Contains(cveID string) (bool, error) {
	var count int64
	err := r.db.Model(&WatchlistModel{}).Where("cve_id = ?", cveID).Count(&count).Error
	return count > 0, err
}

// List returns all tracked identifiers, oldest first.
func (r *WatchlistRepo) List() ([]domain.WatchlistItem, error) {
	var models []WatchlistModel
	if err := r.db.Order("added_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]domain.WatchlistItem, 0, len(models))
	for _, m := range models {
		items = append(items, domain.WatchlistItem{CVEID: m.CVEID, AddedAt: m.AddedAt})
	}
	return items, nil
}

// NoteRepo implements ports.NoteRepository.
type NoteRepo struct {
	db *gorm.DB
}

// Save upserts the note for its CVE.
func (r *NoteRepo) Save(note domain.AnalystNote) error {
	model := NoteModel{
		ID:        note.ID,
		CVEID:     note.CVEID,
		Body:      note.Body,
		UpdatedAt: note.UpdatedAt,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cve_id"}},
		UpdateAll: true,
	}).Create(&model).Error
}

// Get returns the note for a CVE, or nil when none exists.
func (r *NoteRepo) Get(cveID string) (*domain.AnalystNote, error) {
	var model NoteModel
	err := r.db.Where("cve_id = ?", cveID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	note := noteFromModel(model)
	return &note, nil
}

// All returns every note, most recently updated first.
func (r *NoteRepo) All() ([]domain.AnalystNote, error) {
	var models []NoteModel
	if err := r.db.Order("updated_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	notes := make([]domain.AnalystNote, 0, len(models))
	for _, m := range models {
		notes = append(notes, noteFromModel(m))
	}
	return notes, nil
}

func noteFromModel(m NoteModel) domain.AnalystNote {
	return domain.AnalystNote{
		ID:        m.ID,
		CVEID:     m.CVEID,
		Body:      m.Body,
		UpdatedAt: m.UpdatedAt,
	}
}

// SettingsRepo implements ports.SettingsStore with a single persisted row.
type SettingsRepo struct {
	db *gorm.DB
}

// Load returns the persisted settings; a fresh database yields defaults.
func (r *SettingsRepo) Load() (domain.Settings, error) {
	var model SettingsModel
	err := r.db.First(&model, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Settings{}, nil
	}
	if err != nil {
		return domain.Settings{}, err
	}
	return domain.Settings{APIKey: model.APIKey, DemoMode: model.DemoMode}, nil
}

// Save overwrites the settings row.
func (r *SettingsRepo) Save(settings domain.Settings) error {
	model := SettingsModel{ID: 1, APIKey: settings.APIKey, DemoMode: settings.DemoMode}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model).Error
}

var (
	_ ports.WatchlistRepository = (*WatchlistRepo)(nil)
	_ ports.NoteRepository      = (*NoteRepo)(nil)
	_ ports.SettingsStore       = (*SettingsRepo)(nil)
)
