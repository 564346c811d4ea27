package entity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/procureflow/registry/internal/domain/workflow"
)

// StationStatus is the progress of a record at one station
type StationStatus struct {
	Status       workflow.State `json:"status"`
	ReceivedDate string         `json:"receivedDate,omitempty"`
	ReleasedDate string         `json:"releasedDate,omitempty"`
}

// NewStationStatus returns the default station entry
func NewStationStatus() StationStatus {
	return StationStatus{Status: workflow.StatePending}
}

// Workflow holds exactly one StationStatus per pipeline station, indexed by
// workflow.Station
type Workflow [workflow.StationCount]StationStatus

// NewWorkflow returns a workflow with every station pending
func NewWorkflow() Workflow {
	var w Workflow
	for i := range w {
		w[i] = NewStationStatus()
	}
	return w
}

// Station returns the entry for s
func (w Workflow) Station(s workflow.Station) StationStatus {
	return w[s]
}

// Normalize resets unknown or empty states to pending
func (w *Workflow) Normalize() {
	for i := range w {
		if !w[i].Status.IsValid() {
			w[i].Status = workflow.StatePending
		}
	}
}

// MarshalJSON writes the workflow as an object keyed by station id, in
// pipeline order
func (w Workflow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range workflow.Stations() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(s.ID())
		value, err := json.Marshal(w[s])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON applies a partial object onto w. Stations missing from data
// keep their current entry; empty ones become pending.
func (w *Workflow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := *w
	for _, s := range workflow.Stations() {
		msg, ok := raw[s.ID()]
		if !ok {
			continue
		}
		st := out[s]
		if err := json.Unmarshal(msg, &st); err != nil {
			return fmt.Errorf("station %s: %w", s.ID(), err)
		}
		out[s] = st
	}
	out.Normalize()

	*w = out
	return nil
}
