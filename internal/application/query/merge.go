package query

import (
	"time"

	"github.com/procureflow/registry/internal/domain/entity"
)

// MergeImported appends the incoming records whose recordId is not already
// in existing. Appended records are assigned to importer and stamped with
// now. It returns the merged collection and how many records were added;
// existing is never modified.
func MergeImported(existing, incoming []entity.Record, importer string, now time.Time) ([]entity.Record, int) {
	seen := make(map[int]struct{}, len(existing))
	for _, r := range existing {
		seen[r.RecordID] = struct{}{}
	}

	merged := make([]entity.Record, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)

	stamp := now.UTC().Format(time.RFC3339)
	added := 0
	for _, r := range incoming {
		if _, ok := seen[r.RecordID]; ok {
			continue
		}
		r.CreatedBy = importer
		r.CreatedByUsername = importer
		r.LastUpdated = stamp
		merged = append(merged, r)
		added++
	}
	return merged, added
}
