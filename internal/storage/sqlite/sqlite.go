// Package sqlitestorage implements the storage.Backend interface on SQLite.
// A new snapshot is built in an in-memory database and written to disk with
// VACUUM INTO; an existing snapshot file is opened directly.
package sqlitestorage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/pommerman/eventstats/internal/database"
	"github.com/pommerman/eventstats/internal/dataset"
	gormstorage "github.com/pommerman/eventstats/internal/storage/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path string // snapshot file
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db  *database.Manager
	cfg Config
}

// New creates a new SQLite storage backend.
func New(cfg Config, log zerolog.Logger) *Backend {
	db := database.NewManager(log.With().Str("backend", "sqlite").Logger())
	return &Backend{
		Backend: gormstorage.New(db),
		db:      db,
		cfg:     cfg,
	}
}

// Init opens the snapshot file when it exists, an in-memory database
// otherwise, and migrates the schema.
func (b *Backend) Init() error {
	if b.cfg.Path == "" {
		return fmt.Errorf("storage.sqlite.path is not set")
	}

	_, err := os.Stat(b.cfg.Path)
	switch {
	case err == nil:
		err = b.db.ConnectSqlite(b.cfg.Path, "")
	case errors.Is(err, fs.ErrNotExist):
		err = b.db.ConnectSqlite("", b.cfg.Path)
	default:
		return fmt.Errorf("failed to stat %s: %w", b.cfg.Path, err)
	}
	if err != nil {
		return err
	}
	return b.Backend.Init()
}

// Location returns the snapshot file path.
func (b *Backend) Location() string {
	return b.cfg.Path
}

// SaveDataset writes ds and, for an in-memory database, dumps it to disk.
func (b *Backend) SaveDataset(ctx context.Context, ds *dataset.Dataset) error {
	if err := b.Backend.SaveDataset(ctx, ds); err != nil {
		return err
	}
	if b.db.InMemory {
		return b.db.DumpMemoryToDisk()
	}
	return nil
}
