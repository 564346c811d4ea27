package spreadsheet

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/procureflow/registry/internal/domain/entity"
)

// RegistryColumns is the header of an exported registry
var RegistryColumns = []string{
	"Record ID",
	"Supplier Name",
	"Category",
	"PR Number",
	"PO Number",
	"PR Amount (PHP)",
	"PO Amount (PHP)",
	"Status",
	"Created By",
	"Date Requested",
	"Date Completed",
	"Notes",
}

// ExportRegistry writes every record as one row of the Procurements sheet
func (c *Codec) ExportRegistry(records []entity.Record) ([]byte, error) {
	f, err := newWorkbook(RegistrySheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.RecordID,
			r.SupplierName,
			string(r.Category),
			r.PRNumber,
			r.PONumber,
			amountCell(r.Amount),
			amountCell(r.POAmount),
			string(r.Status),
			r.CreatedBy,
			r.DateRequested,
			r.DateCompleted,
			r.Notes,
		})
	}

	if err := writeSheet(f, RegistrySheet, RegistryColumns, rows); err != nil {
		return nil, err
	}

	c.logger.Debug("Registry workbook written", zap.Int("rows", len(rows)))
	return toBytes(f)
}

// ExportRecord writes the Details and Documents sheets for one record
func (c *Codec) ExportRecord(r entity.Record) ([]byte, error) {
	f, err := newWorkbook(DetailsSheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	details := [][]interface{}{
		{"Record ID", r.RecordID},
		{"Supplier", r.SupplierName},
		{"Category", string(r.Category)},
		{"PR Number", orNA(r.PRNumber)},
		{"PR Amount", amountCell(r.Amount)},
		{"PO Number", orNA(r.PONumber)},
		{"PO Amount", amountCell(r.POAmount)},
		{"Status", string(r.Status)},
		{"Created By", r.CreatedBy},
		{"Date Requested", r.DateRequested},
		{"Notes", r.Notes},
	}
	if r.Category.HasEventDetails() {
		details = append(details,
			[]interface{}{"Event Date", orNA(r.EventDate)},
			[]interface{}{"Venue", orNA(r.VenueLocation)},
			[]interface{}{"Servings", orNA(r.Servings)},
		)
	}
	if err := writeSheet(f, DetailsSheet, []string{"Field", "Value"}, details); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(DocumentsSheet); err != nil {
		return nil, fmt.Errorf("failed to add documents sheet: %w", err)
	}
	docs := make([][]interface{}, 0, entity.DocumentSlotCount)
	for _, slot := range entity.DocumentSlots() {
		entry := r.Documents.Entry(slot)
		status := "PENDING"
		if entry.Checked {
			status = "COMPLETED"
		}
		filename := "N/A"
		if entry.File != nil {
			filename = entry.File.Name
		}
		docs = append(docs, []interface{}{slot.Label(), status, filename})
	}
	if err := writeSheet(f, DocumentsSheet, []string{"Document Type", "Status", "Filename"}, docs); err != nil {
		return nil, err
	}

	return toBytes(f)
}

// amountCell leaves zero amounts blank
func amountCell(v float64) interface{} {
	if v == 0 {
		return ""
	}
	return v
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
