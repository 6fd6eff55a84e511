package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"PublicationsImporter/internal/config"
	"PublicationsImporter/internal/ports"
)

// Repository is a DocumentStore that owns a connection.
type Repository interface {
	ports.DocumentStore
	Close(ctx context.Context) error
}

// Open selects and initializes the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (Repository, error) {
	if logger != nil {
		logger.Debug("opening document store", "driver", cfg.Driver)
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		return asRepository(openSQL(ctx, "sqlite", cfg.DSN, 1))
	case config.DriverPostgres:
		return asRepository(openSQL(ctx, "postgres", cfg.DSN, 0))
	case config.DriverMongo:
		repo, err := OpenMongoRepository(ctx, cfg.DSN, cfg.Database)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.DriverBolt:
		repo, err := OpenBoltRepository(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func asRepository(repo *SQLRepository, err error) (Repository, error) {
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// OpenSQLite opens a SQLite database at path (":memory:" for tests) and
// creates the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLRepository, error) {
	return openSQL(ctx, "sqlite", path, 1)
}

func openSQL(ctx context.Context, driver, dsn string, maxOpen int) (*SQLRepository, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	// a single sqlite connection serializes writers and keeps :memory: shared
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	repo := NewSQLRepository(db, driver)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}
