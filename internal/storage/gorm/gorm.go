// Package gormstorage implements the storage.Backend interface on top of any
// GORM dialect managed by database.Manager.
package gormstorage

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/pommerman/eventstats/internal/database"
	"github.com/pommerman/eventstats/internal/dataset"
	"github.com/pommerman/eventstats/internal/model"
	"github.com/pommerman/eventstats/internal/model/convert"
	"github.com/pommerman/eventstats/pkg/core"
)

const (
	insertBatchSize = 500
	loadBatchSize   = 1000
)

// Backend stores dataset snapshots in the game_rows and events tables.
type Backend struct {
	db *database.Manager
}

// New creates a GORM backend over a connected manager.
func New(db *database.Manager) *Backend {
	return &Backend{db: db}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	return b.db.Setup()
}

// Close closes the database connection.
func (b *Backend) Close() error {
	return b.db.Close()
}

// SaveDataset replaces every stored row with the rows of ds in one transaction.
func (b *Backend) SaveDataset(ctx context.Context, ds *dataset.Dataset) error {
	records := make([]model.GameRowRecord, 0, ds.Len())
	for i, r := range ds.Rows() {
		rec, err := convert.CoreToGameRowRecord(i, r)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		records = append(records, rec)
	}

	err := b.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&model.EventRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear events: %w", err)
		}
		if err := all.Unscoped().Delete(&model.GameRowRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear game rows: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&records, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert game rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	b.db.Logger.Info().Int("rows", len(records)).Msg("Saved dataset snapshot")
	return nil
}

// LoadDataset reads every stored row back in saved order.
func (b *Backend) LoadDataset(ctx context.Context) (*dataset.Dataset, error) {
	var (
		batch   []model.GameRowRecord
		records []model.GameRowRecord
	)
	res := b.db.DB.WithContext(ctx).Preload("Events").FindInBatches(&batch, loadBatchSize, func(tx *gorm.DB, _ int) error {
		records = append(records, batch...)
		return nil
	})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to load game rows: %w", res.Error)
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Position < records[j].Position })

	rows := make([]*core.GameRow, 0, len(records))
	for _, rec := range records {
		row, err := convert.GameRowRecordToCore(rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	b.db.Logger.Info().Int("rows", len(rows)).Msg("Loaded dataset snapshot")
	return dataset.New(rows...), nil
}
