// Package spreadsheet reads and writes registry workbooks with excelize.
package spreadsheet

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	// ErrNoSheets is returned for a workbook without any worksheet
	ErrNoSheets = errors.New("workbook has no sheets")
	// ErrMissingHeader is returned when the first sheet has no header row
	ErrMissingHeader = errors.New("first sheet has no header row")
)

// Sheet names
const (
	RegistrySheet  = "Procurements"
	DetailsSheet   = "Details"
	DocumentsSheet = "Documents"
)

// Codec implements port.SpreadsheetCodec
type Codec struct {
	logger *zap.Logger
}

// NewCodec creates a new Codec
func NewCodec(logger *zap.Logger) *Codec {
	return &Codec{logger: logger}
}

// writeSheet fills sheet with a bold header row followed by rows, and sizes
// each column to its header.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for i, h := range header {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(len(h)+10)); err != nil {
			return err
		}
	}
	return nil
}

func newWorkbook(first string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), first); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	return f, nil
}

func toBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
