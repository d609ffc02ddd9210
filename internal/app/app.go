// Package app wires configuration, the quest catalog, profile lookups and
// the store into a planning service.
package app

import (
	"fmt"
	"net/http"

	"github.com/napolitain/ironquest/internal/config"
	"github.com/napolitain/ironquest/internal/loader"
	"github.com/napolitain/ironquest/internal/logger"
	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/profile"
	"github.com/napolitain/ironquest/internal/service"
	"github.com/napolitain/ironquest/internal/store"
)

// App holds the long-lived components of a process
type App struct {
	Config  *config.Config
	Catalog *models.Catalog
	Service *service.Service
	// Store is nil when no store driver is configured
	Store *store.Store
}

// LoadConfig reads the config file at path, applies environment overrides
// and initializes logging.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	cfg.ApplyEnv()

	if err := logger.Initialize(cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

// New loads the catalog and opens the store described by cfg
func New(cfg *config.Config) (*App, error) {
	quests, err := loader.LoadQuests(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load quests: %w", err)
	}
	catalog := models.NewCatalog(quests)
	logger.Info("Loaded quest catalog", "quests", catalog.Len(), "dir", cfg.Data.Dir)

	a := &App{Config: cfg, Catalog: catalog}

	var source profile.Source
	if cfg.Profile.Enabled {
		client := &http.Client{Timeout: cfg.Profile.Timeout}
		source = profile.NewFetcher(
			profile.NewHiscoreClient(cfg.Profile.HiscoreURL, client),
			profile.NewJournalClient(cfg.Profile.JournalURL, client),
			cfg.Profile.Timeout,
		)
	}

	var plans service.PlanSaver
	if cfg.Store.Driver != "" {
		a.Store, err = store.Open(cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		plans = a.Store
		if source != nil {
			source = store.NewCachedSource(source, a.Store, cfg.Store.ProfileTTL)
		}
		logger.Info("Opened store", "driver", cfg.Store.Driver)
	}

	a.Service = service.New(catalog, source, plans)
	return a, nil
}

// Close releases the store
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
