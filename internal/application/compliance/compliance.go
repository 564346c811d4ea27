// Package compliance derives document completeness from a record's checklist.
// Only the checked flag counts; attached files are ignored.
package compliance

import (
	"github.com/procureflow/registry/internal/domain/entity"
)

// IsCompliant reports whether every mandatory document is checked
func IsCompliant(record entity.Record) bool {
	return MissingCount(record) == 0
}

// MissingSlots returns the mandatory slots that are not checked, in checklist order
func MissingSlots(record entity.Record) []entity.DocumentSlot {
	var missing []entity.DocumentSlot
	for _, slot := range entity.MandatoryDocuments() {
		if !record.Documents[slot].Checked {
			missing = append(missing, slot)
		}
	}
	return missing
}

// MissingCount returns len(MissingSlots(record))
func MissingCount(record entity.Record) int {
	n := 0
	for _, slot := range entity.MandatoryDocuments() {
		if !record.Documents[slot].Checked {
			n++
		}
	}
	return n
}

// ReadyToClose is true when the record's overall status is Delivery and all
// mandatory documents are in. The per-station workflow is not consulted.
func ReadyToClose(record entity.Record) bool {
	return record.Status == entity.StatusDelivery && IsCompliant(record)
}
