package storage

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pommerman/eventstats/internal/config"
	"github.com/pommerman/eventstats/internal/storage/memory"
	"github.com/pommerman/eventstats/internal/storage/postgres"
	sqlitestorage "github.com/pommerman/eventstats/internal/storage/sqlite"
)

// ErrUnknownBackend is returned for an unsupported storage.type.
var ErrUnknownBackend = errors.New("unknown storage type")

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(cfg.Postgres, log), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{Path: cfg.SQLite.Path}, log), nil
	case "json", "memory":
		return memory.New(cfg.JSON), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Type)
	}
}
