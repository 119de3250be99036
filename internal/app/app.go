package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/threatlens/threatlens/internal/adapters/nvd"
	"github.com/threatlens/threatlens/internal/adapters/reporting"
	"github.com/threatlens/threatlens/internal/adapters/storage"
	"github.com/threatlens/threatlens/internal/config"
	"github.com/threatlens/threatlens/internal/core/domain"
	"github.com/threatlens/threatlens/internal/core/ports"
	"github.com/threatlens/threatlens/internal/core/services/cache"
	"github.com/threatlens/threatlens/internal/core/services/watchlist"
	"github.com/threatlens/threatlens/internal/telemetry"
)

// Application holds the core components of the application.
// It acts as the Facade for the entire system, wiring adapters to services.
type Application struct {
	Config      *config.Config
	Source      ports.VulnerabilitySource
	Cache       *cache.Store
	Watchlist   *watchlist.Service
	UserData    *storage.UserDataStore
	PDFExporter *reporting.PDFExporter

	cacheKV ports.KeyValueStore
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config: cfg,
	}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

// bootstrap orchestrates the initialization sequence.
func (app *Application) bootstrap() error {
	// 1. Foundation & Infrastructure
	telemetry.InitMetrics()

	if err := os.MkdirAll(app.Config.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	cacheKV, err := storage.NewSQLiteKV(filepath.Join(app.Config.DataDir, "cache.db"))
	if err != nil {
		return err
	}
	app.cacheKV = cacheKV
	app.Cache = cache.New(cacheKV, cache.WithTTL(app.Config.CacheTTL))

	userData, err := storage.NewUserDataStore(filepath.Join(app.Config.DataDir, "userdata.db"))
	if err != nil {
		return err
	}
	app.UserData = userData

	// 2. Acquisition
	settings := &settingsSource{store: userData.Settings(), cfg: app.Config}
	opts := []nvd.Option{nvd.WithStrictErrors(app.Config.StrictErrors)}
	if app.Config.BaseURL != "" {
		opts = append(opts, nvd.WithBaseURL(app.Config.BaseURL))
	}
	app.Source = nvd.NewClient(settings, app.Cache, opts...)

	// 3. User data services
	app.Watchlist = watchlist.NewService(userData.Watchlist(), userData.Notes())
	app.PDFExporter = reporting.NewPDFExporter()

	return nil
}

// Close releases the storage handles.
func (app *Application) Close() error {
	var firstErr error
	if app.cacheKV != nil {
		if err := app.cacheKV.Close(); err != nil {
			firstErr = err
		}
	}
	if app.UserData != nil {
		if err := app.UserData.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// settingsSource layers the per-run configuration over the persisted
// settings. Flags and environment win for the current process; Save still
// writes through to storage.
type settingsSource struct {
	store ports.SettingsStore
	cfg   *config.Config
}

func (s *settingsSource) Load() (domain.Settings, error) {
	stored, err := s.store.Load()
	if err != nil {
		return domain.Settings{}, err
	}
	if s.cfg.APIKey != "" {
		stored.APIKey = s.cfg.APIKey
	}
	if s.cfg.DemoMode {
		stored.DemoMode = true
	}
	return stored, nil
}

func (s *settingsSource) Save(settings domain.Settings) error {
	return s.store.Save(settings)
}
