package workflow

import "fmt"

// Station is one of the fixed approval offices a procurement passes through.
// The numeric order is the pipeline order and the scan order for every
// derivation; it is not configurable.
type Station int

const (
	StationCMO Station = iota
	StationIT
	StationBudget
	StationGSO
	StationBAC
	StationPO
	StationDelivery
	StationAccounting
	StationTreasury
)

// StationCount is the number of stations in the pipeline.
const StationCount = 9

var stationIDs = [StationCount]string{
	"cmo", "it", "budget", "gso", "bac", "po", "delivery", "accounting", "treasury",
}

var stationLabels = [StationCount]string{
	"CMO Approval",
	"IT Review",
	"Budget Office",
	"GSO - PR Generation",
	"BAC Bidding",
	"PO Release",
	"Motorpool",
	"Accounting Verification",
	"Treasury Payment",
}

// Stations returns every station in pipeline order.
func Stations() []Station {
	out := make([]Station, StationCount)
	for i := range out {
		out[i] = Station(i)
	}
	return out
}

// IsValid reports whether s is inside the pipeline.
func (s Station) IsValid() bool {
	return s >= StationCMO && s <= StationTreasury
}

// ID returns the wire key, e.g. "budget".
func (s Station) ID() string {
	if !s.IsValid() {
		return ""
	}
	return stationIDs[s]
}

// Label returns the display name of the office.
func (s Station) Label() string {
	if !s.IsValid() {
		return ""
	}
	return stationLabels[s]
}

// Conditional reports whether the station is skipped for some categories.
// Only IT review is.
func (s Station) Conditional() bool {
	return s == StationIT
}

func (s Station) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("Station(%d)", int(s))
	}
	return stationIDs[s]
}

// ParseStation looks up a station by its wire key.
func ParseStation(id string) (Station, error) {
	for i, v := range stationIDs {
		if v == id {
			return Station(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStation, id)
}
