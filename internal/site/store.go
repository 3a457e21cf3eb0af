package site

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jonathan/pokedex/internal/cache"
	"github.com/jonathan/pokedex/internal/config"
	"github.com/jonathan/pokedex/internal/db"
)

// OpenedStore is a cache store plus its cleanup. Recorder is set when the
// backend also keeps run history.
type OpenedStore struct {
	Store    cache.Store
	Recorder RunRecorder
	Source   string
	close    func()
}

// Close releases the backend's resources.
func (s *OpenedStore) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStore opens the cache backend named by backend.
func OpenStore(ctx context.Context, backend string, cfg *config.Config, logger zerolog.Logger) (*OpenedStore, error) {
	switch backend {
	case config.BackendFile:
		return &OpenedStore{Store: cache.NewFileStore(cfg.CachePath), Source: cfg.CachePath}, nil

	case config.BackendSQLite:
		store, err := cache.OpenSQLite(cfg.CachePath, logger)
		if err != nil {
			return nil, err
		}
		return &OpenedStore{
			Store:  store,
			Source: "sqlite:" + cfg.CachePath,
			close: func() {
				if err := store.Close(); err != nil {
					logger.Warn().Err(err).Msg("failed to close sqlite cache")
				}
			},
		}, nil

	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &OpenedStore{
			Store:    database,
			Recorder: database,
			Source:   "postgres",
			close:    database.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
