package workflow

import (
	"context"
	"fmt"

	"github.com/procureflow/registry/internal/domain/entity"
	domainwf "github.com/procureflow/registry/internal/domain/workflow"
)

// stationStatuses maps each station to the coarse status shown while a
// record sits there
var stationStatuses = [domainwf.StationCount]entity.Status{
	entity.StatusCMOApproval,
	entity.StatusITReview,
	entity.StatusBudgetOffice,
	entity.StatusGSOPR,
	entity.StatusBACBidding,
	entity.StatusPORelease,
	entity.StatusDelivery,
	entity.StatusAccounting,
	entity.StatusPaymentCompleted,
}

// StatusFor returns the coarse status associated with a station
func StatusFor(s domainwf.Station) entity.Status {
	if !s.IsValid() {
		return entity.StatusRequested
	}
	return stationStatuses[s]
}

type engineImpl struct{}

// NewEngine creates a workflow engine
func NewEngine() WorkflowEngine {
	return &engineImpl{}
}

// ApplyCategoryRules is idempotent and leaves processing/completed alone
// when the category is IT-eligible.
func (e *engineImpl) ApplyCategoryRules(record *entity.Record) bool {
	it := &record.Workflow[domainwf.StationIT]
	eligible := record.Category.ITEligible()

	switch {
	case !eligible && it.Status != domainwf.StateNA:
		it.Status = domainwf.StateNA
		return true
	case eligible && it.Status == domainwf.StateNA:
		it.Status = domainwf.StatePending
		return true
	}
	return false
}

// CurrentStation returns the first processing station, else the last
// completed one, else the start marker. Several processing stations are
// tolerated; the earliest wins.
func (e *engineImpl) CurrentStation(record entity.Record) Position {
	stations := domainwf.Stations()

	for _, s := range stations {
		if record.Workflow[s].Status == domainwf.StateProcessing {
			return position(s, true)
		}
	}

	for i := len(stations) - 1; i >= 0; i-- {
		s := stations[i]
		if record.Workflow[s].Status == domainwf.StateCompleted {
			return position(s, false)
		}
	}

	return Position{Station: -1, ID: StartID, Label: StartLabel}
}

func position(s domainwf.Station, processing bool) Position {
	return Position{
		Station:    s,
		ID:         s.ID(),
		Label:      s.Label(),
		Started:    true,
		Processing: processing,
	}
}

// ProcessingStations lists every station currently processing the record
func (e *engineImpl) ProcessingStations(record entity.Record) []domainwf.Station {
	var out []domainwf.Station
	for _, s := range domainwf.Stations() {
		if record.Workflow[s].Status == domainwf.StateProcessing {
			out = append(out, s)
		}
	}
	return out
}

// Transition runs the requested status change through the station machine.
// Setting a station to the status it already has is a no-op; date fields
// are applied whenever they are supplied.
func (e *engineImpl) Transition(ctx context.Context, record *entity.Record, station domainwf.Station, update StationUpdate) error {
	if !station.IsValid() {
		return fmt.Errorf("%w: %s", domainwf.ErrUnknownStation, station)
	}

	entry := &record.Workflow[station]
	if !entry.Status.IsValid() {
		entry.Status = domainwf.StatePending
	}

	if update.Status != "" && update.Status != entry.Status {
		if !update.Status.IsValid() {
			return fmt.Errorf("%w: %q", domainwf.ErrInvalidState, update.Status)
		}

		// IT review can only come back from na for categories that need it
		canRestore := func(ctx context.Context) bool {
			return !station.Conditional() || record.Category.ITEligible()
		}

		machine := BuildStationStateMachine(entry.Status, canRestore)
		trigger, ok := machine.TriggerTo(update.Status)
		if !ok {
			return fmt.Errorf("%w: %s cannot move from %s to %s",
				domainwf.ErrInvalidTransition, station.ID(), entry.Status, update.Status)
		}
		if err := machine.Fire(ctx, trigger); err != nil {
			return fmt.Errorf("station %s: %w", station.ID(), err)
		}
		entry.Status = machine.State()
	}

	if update.ReceivedDate != nil {
		entry.ReceivedDate = *update.ReceivedDate
	}
	if update.ReleasedDate != nil {
		entry.ReleasedDate = *update.ReleasedDate
	}
	return nil
}

// Stations describes the pipeline in fixed order
func (e *engineImpl) Stations() []StationInfo {
	out := make([]StationInfo, 0, domainwf.StationCount)
	for _, s := range domainwf.Stations() {
		out = append(out, StationInfo{
			ID:          s.ID(),
			Label:       s.Label(),
			Status:      StatusFor(s),
			Conditional: s.Conditional(),
		})
	}
	return out
}
