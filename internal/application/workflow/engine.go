package workflow

import (
	"context"

	"github.com/procureflow/registry/internal/domain/entity"
	domainwf "github.com/procureflow/registry/internal/domain/workflow"
)

// Marker for a record that no station has picked up yet
const (
	StartID    = "start"
	StartLabel = "Staff Request Initiation"
)

// Position is where a record currently sits in the pipeline
type Position struct {
	Station    domainwf.Station `json:"-"`
	ID         string           `json:"id"`
	Label      string           `json:"label"`
	Started    bool             `json:"started"`
	Processing bool             `json:"processing"`
}

// StationUpdate is a caller-driven change to one station
type StationUpdate struct {
	Status       domainwf.State
	ReceivedDate *string
	ReleasedDate *string
}

// StationInfo describes one pipeline station for presentation
type StationInfo struct {
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	Status      entity.Status `json:"status"`
	Conditional bool          `json:"conditional"`
}

// WorkflowEngine applies the fixed station pipeline to procurement records.
// It never advances stations on its own; every change comes from a caller.
type WorkflowEngine interface {
	// ApplyCategoryRules skips or restores IT review for the record's category.
	// It reports whether the workflow changed.
	ApplyCategoryRules(record *entity.Record) bool

	// CurrentStation derives the record's position; it is never cached.
	CurrentStation(record entity.Record) Position

	// ProcessingStations lists every station marked processing, in order
	ProcessingStations(record entity.Record) []domainwf.Station

	// Transition validates and applies a change to one station
	Transition(ctx context.Context, record *entity.Record, station domainwf.Station, update StationUpdate) error

	// Stations describes the pipeline in order
	Stations() []StationInfo
}
