package query

import (
	"github.com/procureflow/registry/internal/domain/entity"
)

// Group is a run of records sharing a grouping key
type Group struct {
	Key     string          `json:"key"`
	Records []entity.Record `json:"records"`
}

func groupKey(view View) func(entity.Record) string {
	switch view {
	case ViewBySupplier:
		return func(r entity.Record) string { return r.SupplierName }
	case ViewByAdmin:
		return func(r entity.Record) string { return r.CreatedBy }
	case ViewByCategory:
		return func(r entity.Record) string { return string(r.Category) }
	}
	return nil
}

// GroupBy partitions records by the view's grouping key. Groups appear in
// order of first occurrence and records keep their relative order. A
// non-grouping view yields a single group with an empty key.
func GroupBy(records []entity.Record, view View) []Group {
	key := groupKey(view)
	if key == nil {
		return []Group{{Key: "", Records: records}}
	}

	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}
