package storage

import (
	"context"

	"github.com/pommerman/eventstats/internal/dataset"
)

// Backend is the interface all dataset snapshot implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveDataset replaces the stored snapshot with ds.
	SaveDataset(ctx context.Context, ds *dataset.Dataset) error
	// LoadDataset returns the stored snapshot in its saved row order.
	LoadDataset(ctx context.Context) (*dataset.Dataset, error)
}

// Locatable is an optional interface for backends that write a snapshot file.
type Locatable interface {
	Location() string
}
