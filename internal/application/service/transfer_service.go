package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/procureflow/registry/internal/application/port"
	"github.com/procureflow/registry/internal/application/query"
	"github.com/procureflow/registry/internal/domain/entity"
	"github.com/procureflow/registry/internal/domain/event"
)

// Content types of generated files
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// ExportFile is a generated download
type ExportFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// ImportResult reports how a spreadsheet merge went
type ImportResult struct {
	Detected int    `json:"detected"`
	Added    int    `json:"added"`
	Message  string `json:"message"`
}

// TransferService moves records in and out of spreadsheets and PDFs
type TransferService interface {
	Import(ctx context.Context, importer string, r io.Reader) (*ImportResult, error)
	ExportRegistry(ctx context.Context) (*ExportFile, error)
	ExportRecordWorkbook(ctx context.Context, ref string) (*ExportFile, error)
	ExportRecordPDF(ctx context.Context, ref string) (*ExportFile, error)
}

type transferServiceImpl struct {
	store    port.RecordRepository
	codec    port.SpreadsheetCodec
	renderer port.DocumentRenderer
	logger   Logger
	opts     options
}

// NewTransferService creates a new TransferService
func NewTransferService(
	store port.RecordRepository,
	codec port.SpreadsheetCodec,
	renderer port.DocumentRenderer,
	logger Logger,
	opts ...Option,
) TransferService {
	return &transferServiceImpl{
		store:    store,
		codec:    codec,
		renderer: renderer,
		logger:   logger,
		opts:     buildOptions(opts),
	}
}

// Import parses the whole workbook before touching the registry; a bad file
// adds nothing. Rows whose record number already exists are skipped.
func (s *transferServiceImpl) Import(ctx context.Context, importer string, r io.Reader) (*ImportResult, error) {
	importer = strings.TrimSpace(importer)
	if importer == "" {
		return nil, newUserError(ErrValidation, MsgImporterRequired)
	}

	incoming, err := s.codec.ImportRegistry(r, s.opts.now())
	if err != nil {
		s.logger.Error("Failed to parse import", "importer", importer, "error", err)
		return nil, wrapUserError(ErrImportFormat, MsgImportFailed, err)
	}

	for i := range incoming {
		if incoming[i].ID == "" {
			incoming[i].ID = s.opts.newID()
		}
		if incoming[i].RecordID <= 0 {
			incoming[i].RecordID = s.opts.recordNumber()
		}
	}

	result := &ImportResult{Detected: len(incoming)}
	err = s.store.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		merged, added := query.MergeImported(records, incoming, importer, s.opts.now())
		result.Added = added
		return merged, nil
	})
	if err != nil {
		s.logger.Error("Failed to save import", "importer", importer, "error", err)
		return nil, fmt.Errorf("save import: %w", err)
	}

	if result.Added == 0 {
		result.Message = MsgAllRecordsExist
	} else {
		result.Message = fmt.Sprintf("Successfully imported %d records to your account list.", result.Added)
	}

	s.logger.Info("Import completed", "importer", importer, "detected", result.Detected, "added", result.Added)
	s.opts.publish(ctx, s.logger, event.NewEvent(event.TypeImportCompleted, "", map[string]interface{}{
		"detected": result.Detected,
		"added":    result.Added,
	}).WithActor(importer))
	return result, nil
}

// ExportRegistry writes the full collection to one workbook
func (s *transferServiceImpl) ExportRegistry(ctx context.Context) (*ExportFile, error) {
	records := s.store.Load(ctx)
	if len(records) == 0 {
		return nil, newUserError(ErrValidation, MsgNoDataToExport)
	}

	content, err := s.codec.ExportRegistry(records)
	if err != nil {
		s.logger.Error("Failed to export registry", "error", err)
		return nil, fmt.Errorf("export registry: %w", err)
	}

	file := &ExportFile{
		Name:        fmt.Sprintf("ProcureFlow_Registry_%s.xlsx", s.opts.today()),
		ContentType: ContentTypeXLSX,
		Content:     content,
	}
	s.exported(ctx, "", "xlsx", file)
	return file, nil
}

// ExportRecordWorkbook writes the details and documents sheets for one record
func (s *transferServiceImpl) ExportRecordWorkbook(ctx context.Context, ref string) (*ExportFile, error) {
	record, err := s.find(ctx, ref)
	if err != nil {
		return nil, err
	}

	content, err := s.codec.ExportRecord(*record)
	if err != nil {
		s.logger.Error("Failed to export record workbook", "id", record.ID, "error", err)
		return nil, fmt.Errorf("export record %d: %w", record.RecordID, err)
	}

	file := &ExportFile{
		Name:        fmt.Sprintf("Procurement_%d_Details.xlsx", record.RecordID),
		ContentType: ContentTypeXLSX,
		Content:     content,
	}
	s.exported(ctx, record.ID, "record-xlsx", file)
	return file, nil
}

// ExportRecordPDF renders the printable summary of one record
func (s *transferServiceImpl) ExportRecordPDF(ctx context.Context, ref string) (*ExportFile, error) {
	record, err := s.find(ctx, ref)
	if err != nil {
		return nil, err
	}

	content, err := s.renderer.RenderRecord(*record)
	if err != nil {
		s.logger.Error("Failed to render record PDF", "id", record.ID, "error", err)
		return nil, fmt.Errorf("render record %d: %w", record.RecordID, err)
	}

	file := &ExportFile{
		Name:        fmt.Sprintf("Procurement_Registry_%d.pdf", record.RecordID),
		ContentType: ContentTypePDF,
		Content:     content,
	}
	s.exported(ctx, record.ID, "pdf", file)
	return file, nil
}

func (s *transferServiceImpl) find(ctx context.Context, ref string) (*entity.Record, error) {
	records := s.store.Load(ctx)
	i := findRecord(records, ref)
	if i < 0 {
		return nil, newUserError(ErrNotFound, MsgRecordNotFound)
	}
	return &records[i], nil
}

func (s *transferServiceImpl) exported(ctx context.Context, recordID, format string, file *ExportFile) {
	s.logger.Info("Export rendered", "format", format, "file", file.Name, "size", len(file.Content))
	s.opts.publish(ctx, s.logger, event.NewEvent(event.TypeExportRendered, recordID, map[string]interface{}{
		"format": format,
		"file":   file.Name,
	}))
}
