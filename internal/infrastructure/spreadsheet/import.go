package spreadsheet

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/procureflow/registry/internal/domain/entity"
	"github.com/procureflow/registry/internal/domain/workflow"
)

// Defaults for values an imported row leaves empty
const (
	DefaultSupplier  = "Unknown Supplier"
	DefaultCreatedBy = "System Import"
	TechnicalType    = "Technical"
)

// Accepted headers per field, first match wins
var (
	colRecordID      = []string{"Record ID"}
	colSupplier      = []string{"Supplier Name", "Item Name"}
	colCategory      = []string{"Category"}
	colPRNumber      = []string{"PR Number"}
	colPONumber      = []string{"PO Number"}
	colAmount        = []string{"PR Amount (PHP)", "Amount (PHP)", "Amount", "Quantity"}
	colPOAmount      = []string{"PO Amount (PHP)", "PO Amount"}
	colStatus        = []string{"Status"}
	colCreatedBy     = []string{"Created By", "Requested By"}
	colDateRequested = []string{"Date Requested", "Date"}
	colDateCompleted = []string{"Date Completed"}
	colNotes         = []string{"Notes", "Remarks"}
	colType          = []string{"Type"}
)

// row resolves values by header name
type row struct {
	header map[string]int
	cells  []string
}

// get returns the first non-empty value among names
func (r row) get(names []string) string {
	for _, name := range names {
		i, ok := r.header[name]
		if !ok || i >= len(r.cells) {
			continue
		}
		if v := strings.TrimSpace(r.cells[i]); v != "" {
			return v
		}
	}
	return ""
}

func (r row) blank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ImportRegistry parses the first sheet into records. Identity is left empty
// when the sheet does not provide it; the caller assigns ids. Any read error
// rejects the whole workbook.
func (c *Codec) ImportRegistry(r io.Reader, today time.Time) ([]entity.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 || (row{cells: rows[0]}).blank() {
		return nil, ErrMissingHeader
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if _, dup := header[h]; h != "" && !dup {
			header[h] = i
		}
	}

	date := today.Format("2006-01-02")
	records := make([]entity.Record, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		rw := row{header: header, cells: cells}
		if rw.blank() {
			continue
		}
		records = append(records, parseRow(rw, len(records), date))
	}

	c.logger.Info("Workbook parsed",
		zap.String("sheet", sheets[0]),
		zap.Int("records", len(records)))
	return records, nil
}

func parseRow(rw row, index int, today string) entity.Record {
	rec := entity.NewRecord()

	if id, err := strconv.Atoi(rw.get(colRecordID)); err == nil && id > 0 {
		rec.RecordID = id
	}

	rec.SupplierName = rw.get(colSupplier)
	if rec.SupplierName == "" {
		rec.SupplierName = DefaultSupplier
	}

	if cat := entity.Category(rw.get(colCategory)); cat.IsValid() {
		rec.Category = cat
	}

	rec.PRNumber = rw.get(colPRNumber)
	if rec.PRNumber == "" {
		rec.PRNumber = fmt.Sprintf("PR-IMP-%d", index)
	}
	rec.PONumber = rw.get(colPONumber)

	rec.Amount = parseAmount(rw.get(colAmount))
	rec.POAmount = parseAmount(rw.get(colPOAmount))

	if status := entity.Status(rw.get(colStatus)); status.IsValid() {
		rec.Status = status
	}

	rec.CreatedBy = rw.get(colCreatedBy)
	if rec.CreatedBy == "" {
		rec.CreatedBy = DefaultCreatedBy
	}

	rec.DateRequested = rw.get(colDateRequested)
	if rec.DateRequested == "" {
		rec.DateRequested = today
	}
	rec.DateCompleted = rw.get(colDateCompleted)
	rec.Notes = rw.get(colNotes)

	technical := rw.get(colType) == TechnicalType || rec.Category.ITEligible()
	if !technical {
		rec.Workflow[workflow.StationIT].Status = workflow.StateNA
	}
	return rec
}

// parseAmount accepts "1,500.50" style values; anything unparsable,
// non-finite or negative becomes zero
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(strings.TrimPrefix(s, "PHP"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
