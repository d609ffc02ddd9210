package store

import (
	"context"
	"errors"
	"time"

	"github.com/napolitain/ironquest/internal/logger"
	"github.com/napolitain/ironquest/internal/profile"
)

// CachedSource serves profiles from the store while they are younger than TTL
type CachedSource struct {
	Source profile.Source
	Store  *Store
	TTL    time.Duration

	now func() time.Time
}

// NewCachedSource wraps source with a profile cache
func NewCachedSource(source profile.Source, store *Store, ttl time.Duration) *CachedSource {
	return &CachedSource{Source: source, Store: store, TTL: ttl, now: time.Now}
}

// Profile returns a fresh cached profile or fetches a new one. A stale cached
// profile is returned when the fetch fails.
func (c *CachedSource) Profile(ctx context.Context, name string) (*profile.Profile, error) {
	cached, err := c.Store.LoadProfile(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Warn("Failed to read cached profile", "player", name, "error", err)
	}
	if cached != nil && c.now().Sub(cached.FetchedAt) < c.TTL {
		logger.Debug("Using cached profile", "player", name, "age", c.now().Sub(cached.FetchedAt))
		return cached, nil
	}

	fresh, err := c.Source.Profile(ctx, name)
	if err != nil {
		if cached != nil {
			logger.Warn("Using stale profile", "player", name, "error", err)
			return cached, nil
		}
		return nil, err
	}

	if err := c.Store.SaveProfile(ctx, fresh); err != nil {
		logger.Warn("Failed to cache profile", "player", name, "error", err)
	}
	return fresh, nil
}
