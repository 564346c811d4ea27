// Package query implements the list views over the record collection:
// selector filters, free-text search, grouping and dashboard aggregates.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/procureflow/registry/internal/application/compliance"
	"github.com/procureflow/registry/internal/domain/entity"
)

// ErrUnknownView is returned for a selector that is not one of the known views
var ErrUnknownView = errors.New("unknown view")

// View selects a subset or presentation of the collection
type View string

const (
	ViewAll          View = "all"
	ViewPending      View = "pending"
	ViewCompleted    View = "completed"
	ViewMissingDocs  View = "missing-docs"
	ViewReadyToClose View = "ready-to-close"
	ViewBySupplier   View = "by-supplier"
	ViewByAdmin      View = "by-admin"
	ViewByCategory   View = "by-category"
	ViewDashboard    View = "dashboard"
	ViewWorkflowMap  View = "workflow-map"
)

var views = []View{
	ViewAll, ViewPending, ViewCompleted, ViewMissingDocs, ViewReadyToClose,
	ViewBySupplier, ViewByAdmin, ViewByCategory, ViewDashboard, ViewWorkflowMap,
}

// Views returns every known selector
func Views() []View {
	return append([]View(nil), views...)
}

// ParseView maps a selector string to a View. An empty string means all.
func ParseView(s string) (View, error) {
	if s == "" {
		return ViewAll, nil
	}
	for _, v := range views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// Grouping reports whether the view presents records in groups
func (v View) Grouping() bool {
	return v == ViewBySupplier || v == ViewByAdmin || v == ViewByCategory
}

func (v View) match(r entity.Record) bool {
	switch v {
	case ViewPending:
		return r.Status != entity.StatusPaymentCompleted
	case ViewCompleted:
		return r.Status == entity.StatusPaymentCompleted
	case ViewMissingDocs:
		return !compliance.IsCompliant(r)
	case ViewReadyToClose:
		return compliance.ReadyToClose(r)
	default:
		return true
	}
}

// Filter keeps the records the view selects, preserving order
func Filter(records []entity.Record, view View) []entity.Record {
	out := make([]entity.Record, 0, len(records))
	for _, r := range records {
		if view.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Search keeps records whose supplier, PR number, PO number or category
// contains term, ignoring case. An empty term keeps everything.
func Search(records []entity.Record, term string) []entity.Record {
	if term == "" {
		return records
	}
	q := strings.ToLower(term)

	out := make([]entity.Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.SupplierName), q) ||
			strings.Contains(strings.ToLower(r.PRNumber), q) ||
			strings.Contains(strings.ToLower(r.PONumber), q) ||
			strings.Contains(strings.ToLower(string(r.Category)), q) {
			out = append(out, r)
		}
	}
	return out
}

// Select applies the view filter and then the search term
func Select(records []entity.Record, view View, term string) []entity.Record {
	return Search(Filter(records, view), term)
}
