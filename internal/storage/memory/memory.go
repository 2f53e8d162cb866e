// Package memory keeps the latest dataset in memory and persists it as a
// (optionally gzip-compressed) JSON document.
package memory

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pommerman/eventstats/internal/config"
	"github.com/pommerman/eventstats/internal/dataset"
	v1 "github.com/pommerman/eventstats/internal/storage/memory/export/v1"
)

// Backend stores the dataset in memory and exports it to JSON
type Backend struct {
	cfg config.JSONConfig
	ds  *dataset.Dataset
	mu  sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.JSONConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	if b.cfg.Path == "" {
		return fmt.Errorf("storage.json.path is not set")
	}
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// Location returns the snapshot file path.
func (b *Backend) Location() string {
	return b.cfg.Path
}

func (b *Backend) compressed() bool {
	return strings.HasSuffix(b.cfg.Path, ".gz")
}

// SaveDataset keeps ds and writes it to the configured path.
func (b *Backend) SaveDataset(_ context.Context, ds *dataset.Dataset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	export := v1.Build(ds.Rows(), time.Now())

	if dir := filepath.Dir(b.cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if b.compressed() {
		if err := writeGzipJSON(b.cfg.Path, export); err != nil {
			return err
		}
	} else {
		if err := writeJSON(b.cfg.Path, export); err != nil {
			return err
		}
	}

	b.ds = ds
	return nil
}

// LoadDataset returns the dataset saved through this backend, or reads the
// snapshot file. A missing file yields an error wrapping fs.ErrNotExist.
func (b *Backend) LoadDataset(_ context.Context) (*dataset.Dataset, error) {
	b.mu.RLock()
	ds := b.ds
	b.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	f, err := os.Open(b.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if b.compressed() {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	var export v1.Export
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", b.cfg.Path, err)
	}
	rows, err := v1.Restore(export)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", b.cfg.Path, err)
	}

	ds = dataset.New(rows...)
	b.mu.Lock()
	b.ds = ds
	b.mu.Unlock()
	return ds, nil
}

func writeJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeGzipJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return nil
}
