package query

import (
	"github.com/procureflow/registry/internal/application/compliance"
	"github.com/procureflow/registry/internal/domain/entity"
	domainwf "github.com/procureflow/registry/internal/domain/workflow"
)

// DefaultWorkflowMapLimit is how many records each station column shows
const DefaultWorkflowMapLimit = 3

// StationLoad counts the records a station is processing
type StationLoad struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Processing int    `json:"processing"`
}

// Stats summarizes the whole collection
type Stats struct {
	Total       int           `json:"total"`
	TotalAmount float64       `json:"totalAmount"`
	MissingDocs int           `json:"missingDocs"`
	Pipeline    []StationLoad `json:"pipeline"`
}

// Dashboard aggregates over every record; it is never narrowed by a view.
func Dashboard(records []entity.Record) Stats {
	stats := Stats{Total: len(records)}
	for _, r := range records {
		stats.TotalAmount += r.Amount
		if !compliance.IsCompliant(r) {
			stats.MissingDocs++
		}
	}

	counts := processingCounts(records)
	stats.Pipeline = make([]StationLoad, 0, domainwf.StationCount)
	for _, s := range domainwf.Stations() {
		stats.Pipeline = append(stats.Pipeline, StationLoad{
			ID:         s.ID(),
			Label:      s.Label(),
			Processing: counts[s],
		})
	}
	return stats
}

func processingCounts(records []entity.Record) [domainwf.StationCount]int {
	var counts [domainwf.StationCount]int
	for _, r := range records {
		for _, s := range domainwf.Stations() {
			if r.Workflow[s].Status == domainwf.StateProcessing {
				counts[s]++
			}
		}
	}
	return counts
}

// RecordRef is the short form of a record shown on the workflow map
type RecordRef struct {
	ID           string  `json:"id"`
	RecordID     int     `json:"recordId"`
	SupplierName string  `json:"supplierName"`
	PRNumber     string  `json:"prNumber"`
	Amount       float64 `json:"amount"`
}

// StationColumn is one station on the workflow map
type StationColumn struct {
	Step        int         `json:"step"`
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Conditional bool        `json:"conditional"`
	Processing  int         `json:"processing"`
	Records     []RecordRef `json:"records"`
}

// WorkflowMap lists, per station, how many records it is processing and the
// first limit of them in collection order. limit <= 0 uses the default.
func WorkflowMap(records []entity.Record, limit int) []StationColumn {
	if limit <= 0 {
		limit = DefaultWorkflowMapLimit
	}

	columns := make([]StationColumn, 0, domainwf.StationCount)
	for i, s := range domainwf.Stations() {
		col := StationColumn{
			Step:        i + 1,
			ID:          s.ID(),
			Label:       s.Label(),
			Conditional: s.Conditional(),
			Records:     []RecordRef{},
		}
		for _, r := range records {
			if r.Workflow[s].Status != domainwf.StateProcessing {
				continue
			}
			col.Processing++
			if len(col.Records) < limit {
				col.Records = append(col.Records, RecordRef{
					ID:           r.ID,
					RecordID:     r.RecordID,
					SupplierName: r.SupplierName,
					PRNumber:     r.PRNumber,
					Amount:       r.Amount,
				})
			}
		}
		columns = append(columns, col)
	}
	return columns
}
