// Package postgres implements the storage.Backend interface on PostgreSQL.
package postgres

import (
	"github.com/rs/zerolog"

	"github.com/pommerman/eventstats/internal/config"
	"github.com/pommerman/eventstats/internal/database"
	gormstorage "github.com/pommerman/eventstats/internal/storage/gorm"
)

// Backend wraps the GORM backend with a Postgres connection.
type Backend struct {
	*gormstorage.Backend
	db  *database.Manager
	cfg config.DBConfig
}

// New creates a Postgres backend. The connection is opened by Init.
func New(cfg config.DBConfig, log zerolog.Logger) *Backend {
	db := database.NewManager(log.With().Str("backend", "postgres").Logger())
	return &Backend{
		Backend: gormstorage.New(db),
		db:      db,
		cfg:     cfg,
	}
}

// Init connects and migrates the schema.
func (b *Backend) Init() error {
	if err := b.db.ConnectPostgres(b.cfg); err != nil {
		return err
	}
	return b.Backend.Init()
}
