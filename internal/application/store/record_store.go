package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/procureflow/registry/internal/application/port"
	"github.com/procureflow/registry/internal/domain/entity"
	domainwf "github.com/procureflow/registry/internal/domain/workflow"
)

// RecordStore implements port.RecordRepository
type RecordStore struct {
	records *collection[entity.Record]
	logger  *zap.Logger
}

// NewRecordStore creates a record store over blobs
func NewRecordStore(blobs port.BlobStore, logger *zap.Logger) *RecordStore {
	return &RecordStore{
		records: &collection[entity.Record]{
			blobs:     blobs,
			namespace: RecordsNamespace,
			normalize: (*entity.Record).Normalize,
			logger:    logger,
		},
		logger: logger,
	}
}

// Load returns a copy of the collection in stored order
func (s *RecordStore) Load(ctx context.Context) []entity.Record {
	s.records.mu.Lock()
	defer s.records.mu.Unlock()
	return s.records.load(ctx)
}

// Save replaces the stored collection
func (s *RecordStore) Save(ctx context.Context, records []entity.Record) error {
	s.records.mu.Lock()
	defer s.records.mu.Unlock()
	return s.records.save(ctx, records)
}

// Update loads the collection, applies fn and saves the result. Nothing is
// written when fn fails.
func (s *RecordStore) Update(ctx context.Context, fn func([]entity.Record) ([]entity.Record, error)) error {
	return s.records.update(ctx, fn)
}

// SeedIfEmpty writes the example record when the collection is empty
func (s *RecordStore) SeedIfEmpty(ctx context.Context) (bool, error) {
	seeded := false
	err := s.records.update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		if len(records) > 0 {
			return records, nil
		}
		seeded = true
		return []entity.Record{SeedRecord(time.Now())}, nil
	})
	if err != nil {
		return false, err
	}
	if seeded {
		s.logger.Info("Seeded empty registry with example record")
	}
	return seeded, nil
}

// SeedRecord is the example procurement written into an empty registry
func SeedRecord(now time.Time) entity.Record {
	r := entity.NewRecord()
	r.ID = "1"
	r.RecordID = 1001
	r.SupplierName = "Office Depot"
	r.Category = entity.CategoryOfficeSupplies
	r.PRNumber = "PR-2023-001"
	r.PONumber = "PO-2023-001"
	r.Amount = 1500
	r.POAmount = 1450
	r.Status = entity.StatusRequested
	r.CreatedBy = "Alice Smith"
	r.DateRequested = "2023-10-01"
	r.LastUpdated = now.UTC().Format(time.RFC3339)
	r.Notes = "Initial office supplies"

	r.Workflow[domainwf.StationCMO] = entity.StationStatus{
		Status:       domainwf.StateProcessing,
		ReceivedDate: "2023-10-02",
	}
	r.Workflow[domainwf.StationIT].Status = domainwf.StateNA
	return r
}
