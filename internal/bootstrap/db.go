package bootstrap

import (
	"context"
	"database/sql"

	"github.com/zeebo/errs"

	"github.com/GoSim-25-26J-441/feast-registry/config"
	httpapi "github.com/GoSim-25-26J-441/feast-registry/internal/api/http"
	"github.com/GoSim-25-26J-441/feast-registry/internal/db"
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/repository"
	"github.com/GoSim-25-26J-441/feast-registry/internal/storage/postgres"
	"github.com/GoSim-25-26J-441/feast-registry/internal/storage/sqlite"
)

// Error wraps startup failures.
var Error = errs.Class("bootstrap")

// Storage is an opened registry store plus what health checks should ping.
type Storage struct {
	Store  *repository.Store
	Health httpapi.Pinger
	close  func()
}

func (s *Storage) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStorage connects with the configured driver and, unless disabled,
// creates any missing registry table.
func OpenStorage(ctx context.Context, dbCfg config.DatabaseConfig, regCfg config.RegistryConfig) (*Storage, error) {
	var (
		handle  *sql.DB
		dialect repository.Dialect
		health  httpapi.Pinger
		closeFn func()
	)

	switch dbCfg.Driver {
	case config.DriverPgx:
		pool, err := db.Open(ctx, &dbCfg)
		if err != nil {
			return nil, Error.Wrap(err)
		}
		handle, dialect, health, closeFn = pool.SQL(), repository.Postgres, pool.Pool, pool.Close
	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, &dbCfg)
		if err != nil {
			return nil, Error.Wrap(err)
		}
		handle, dialect, closeFn = conn, repository.Postgres, func() { _ = conn.Close() }
	case config.DriverSQLite:
		conn, err := sqlite.Open(ctx, dbCfg.DSN)
		if err != nil {
			return nil, Error.Wrap(err)
		}
		handle, dialect, closeFn = conn, repository.SQLite, func() { _ = conn.Close() }
	default:
		return nil, Error.New("unsupported database driver %q", dbCfg.Driver)
	}

	store := repository.NewStore(handle, dialect, repository.WithMonotonicLastUpdated(regCfg.MonotonicLastUpdated))
	if health == nil {
		health = store
	}

	if dbCfg.AutoCreateSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			closeFn()
			return nil, Error.Wrap(err)
		}
	}

	return &Storage{Store: store, Health: health, close: closeFn}, nil
}
