package storage_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pommerman/eventstats/internal/config"
	"github.com/pommerman/eventstats/internal/storage"
	gormstorage "github.com/pommerman/eventstats/internal/storage/gorm"
	"github.com/pommerman/eventstats/internal/storage/memory"
	"github.com/pommerman/eventstats/internal/storage/postgres"
	sqlitestorage "github.com/pommerman/eventstats/internal/storage/sqlite"
)

// Compile-time interface checks
var (
	_ storage.Backend   = (*gormstorage.Backend)(nil)
	_ storage.Backend   = (*memory.Backend)(nil)
	_ storage.Backend   = (*sqlitestorage.Backend)(nil)
	_ storage.Backend   = (*postgres.Backend)(nil)
	_ storage.Locatable = (*memory.Backend)(nil)
	_ storage.Locatable = (*sqlitestorage.Backend)(nil)
)

func TestNewBackend(t *testing.T) {
	tests := []struct {
		typ  string
		want any
	}{
		{"json", &memory.Backend{}},
		{"memory", &memory.Backend{}},
		{"sqlite", &sqlitestorage.Backend{}},
		{"postgres", &postgres.Backend{}},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			b, err := storage.NewBackend(config.StorageConfig{Type: tt.typ}, zerolog.Nop())
			require.NoError(t, err)
			assert.IsType(t, tt.want, b)
		})
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := storage.NewBackend(config.StorageConfig{Type: "pickle"}, zerolog.Nop())
	assert.ErrorIs(t, err, storage.ErrUnknownBackend)
	assert.Contains(t, err.Error(), "pickle")
}
