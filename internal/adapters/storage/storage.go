// Package storage selects the persistence adapter named by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/ewilliams-labs/remixense/internal/adapters/mongo"
	"github.com/ewilliams-labs/remixense/internal/adapters/sqlite"
	"github.com/ewilliams-labs/remixense/internal/config"
	"github.com/ewilliams-labs/remixense/internal/core/ports"
)

// Store is a catalog and session repository that owns a connection.
type Store interface {
	ports.TrackCatalog
	ports.MixSessionRepository
	Close() error
}

// Open connects to the configured driver and runs its migrations.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		a, err := sqlite.NewAdapter(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		return a, nil
	case config.DriverMongo:
		a, err := mongo.NewAdapter(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StorageDriver)
	}
}
