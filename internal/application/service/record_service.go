package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/procureflow/registry/internal/application/port"
	"github.com/procureflow/registry/internal/application/query"
	"github.com/procureflow/registry/internal/application/workflow"
	"github.com/procureflow/registry/internal/domain/entity"
	"github.com/procureflow/registry/internal/domain/event"
	domainwf "github.com/procureflow/registry/internal/domain/workflow"
	"github.com/procureflow/registry/pkg/utils"
)

// allowedAttachments are the file extensions a document slot accepts
var allowedAttachments = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ListResult is one page of the registry as seen through a view
type ListResult struct {
	View    query.View      `json:"view"`
	Records []entity.Record `json:"records"`
	Groups  []query.Group   `json:"groups,omitempty"`
}

// Upload is a document file already read by the caller
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// RecordService manages procurement records. ref arguments accept either
// the record id or its numeric record number.
type RecordService interface {
	List(ctx context.Context, view, term string) (*ListResult, error)
	Get(ctx context.Context, ref string) (*entity.Record, error)
	Create(ctx context.Context, actor string, input entity.Record) (*entity.Record, error)
	Update(ctx context.Context, actor, ref string, input entity.Record) (*entity.Record, error)
	Delete(ctx context.Context, actor, ref string) error
	UpdateStation(ctx context.Context, actor, ref, stationID string, update workflow.StationUpdate) (*entity.Record, error)
	SetDocumentChecked(ctx context.Context, actor, ref, slotID string, checked bool) (*entity.Record, error)
	AttachDocument(ctx context.Context, actor, ref, slotID string, upload Upload) (*entity.Record, error)
	Document(ctx context.Context, ref, slotID string) (*entity.ProcurementFile, []byte, error)
	Dashboard(ctx context.Context) query.Stats
	WorkflowMap(ctx context.Context, limit int) []query.StationColumn
	Stations() []workflow.StationInfo
	Seed(ctx context.Context) (bool, error)
}

type recordServiceImpl struct {
	store  port.RecordRepository
	engine workflow.WorkflowEngine
	logger Logger
	opts   options
}

// NewRecordService creates a new RecordService
func NewRecordService(
	store port.RecordRepository,
	engine workflow.WorkflowEngine,
	logger Logger,
	opts ...Option,
) RecordService {
	return &recordServiceImpl{
		store:  store,
		engine: engine,
		logger: logger,
		opts:   buildOptions(opts),
	}
}

// List filters by view, then searches. Grouping views also return groups.
func (s *recordServiceImpl) List(ctx context.Context, view, term string) (*ListResult, error) {
	v, err := query.ParseView(view)
	if err != nil {
		return nil, wrapUserError(ErrValidation, fmt.Sprintf("Unknown view %q.", view), err)
	}

	records := query.Select(s.store.Load(ctx), v, strings.TrimSpace(term))
	result := &ListResult{View: v, Records: records}
	if v.Grouping() {
		result.Groups = query.GroupBy(records, v)
	}
	return result, nil
}

// Get returns a copy of one record
func (s *recordServiceImpl) Get(ctx context.Context, ref string) (*entity.Record, error) {
	records := s.store.Load(ctx)
	i := findRecord(records, ref)
	if i < 0 {
		return nil, newUserError(ErrNotFound, MsgRecordNotFound)
	}
	return &records[i], nil
}

// Create fills identity and defaults, applies the IT rule and appends the record
func (s *recordServiceImpl) Create(ctx context.Context, actor string, input entity.Record) (*entity.Record, error) {
	record := input.Clone()
	if err := validateRecord(&record); err != nil {
		return nil, err
	}

	record.ID = s.opts.newID()
	if record.RecordID <= 0 {
		record.RecordID = s.opts.recordNumber()
	}
	if record.CreatedBy == "" {
		record.CreatedBy = actor
	}
	if record.CreatedByUsername == "" {
		record.CreatedByUsername = actor
	}
	if record.DateRequested == "" {
		record.DateRequested = s.opts.today()
	}
	record.LastUpdated = s.opts.timestamp()
	record.Normalize()
	s.engine.ApplyCategoryRules(&record)

	err := s.store.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		return append(records, record), nil
	})
	if err != nil {
		s.logger.Error("Failed to create record", "error", err, "supplier", record.SupplierName)
		return nil, fmt.Errorf("save records: %w", err)
	}

	s.logger.Info("Record created", "id", record.ID, "record_id", record.RecordID, "actor", actor)
	s.opts.publish(ctx, s.logger, event.NewEvent(event.TypeRecordCreated, record.ID, map[string]interface{}{
		"category": string(record.Category),
	}).WithActor(actor))
	return &record, nil
}

// Update replaces a record with input as a whole form save. The workflow is
// taken as given; only the IT rule is re-applied.
func (s *recordServiceImpl) Update(ctx context.Context, actor, ref string, input entity.Record) (*entity.Record, error) {
	var updated entity.Record
	err := s.store.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		i := findRecord(records, ref)
		if i < 0 {
			return nil, newUserError(ErrNotFound, MsgRecordNotFound)
		}
		existing := records[i]

		record := input.Clone()
		if err := validateRecord(&record); err != nil {
			return nil, err
		}

		record.ID = existing.ID
		if record.RecordID <= 0 {
			record.RecordID = existing.RecordID
		}
		if record.CreatedBy == "" {
			record.CreatedBy = existing.CreatedBy
		}
		if record.CreatedByUsername == "" {
			record.CreatedByUsername = existing.CreatedByUsername
		}
		if record.DateRequested == "" {
			record.DateRequested = existing.DateRequested
		}
		record.LastUpdated = s.opts.timestamp()
		record.Normalize()
		s.engine.ApplyCategoryRules(&record)

		records[i] = record
		updated = record
		return records, nil
	})
	if err != nil {
		return nil, s.storeError("update", ref, err)
	}

	s.logger.Info("Record updated", "id", updated.ID, "actor", actor)
	s.opts.publish(ctx, s.logger, event.NewEvent(event.TypeRecordUpdated, updated.ID, nil).WithActor(actor))
	return &updated, nil
}

// Delete removes a record permanently
func (s *recordServiceImpl) Delete(ctx context.Context, actor, ref string) error {
	var id string
	err := s.store.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		i := findRecord(records, ref)
		if i < 0 {
			return nil, newUserError(ErrNotFound, MsgRecordNotFound)
		}
		id = records[i].ID
		return append(records[:i], records[i+1:]...), nil
	})
	if err != nil {
		return s.storeError("delete", ref, err)
	}

	s.logger.Info("Record deleted", "id", id, "actor", actor)
	s.opts.publish(ctx, s.logger, event.NewEvent(event.TypeRecordDeleted, id, nil).WithActor(actor))
	return nil
}

// UpdateStation moves one station through its state machine and records dates
func (s *recordServiceImpl) UpdateStation(ctx context.Context, actor, ref, stationID string, update workflow.StationUpdate) (*entity.Record, error) {
	station, err := domainwf.ParseStation(stationID)
	if err != nil {
		return nil, wrapUserError(ErrValidation, fmt.Sprintf("Unknown station %q.", stationID), err)
	}

	var (
		updated entity.Record
		from    domainwf.State
	)
	err = s.store.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		i := findRecord(records, ref)
		if i < 0 {
			return nil, newUserError(ErrNotFound, MsgRecordNotFound)
		}

		record := records[i]
		from = record.Workflow[station].Status
		if err := s.engine.Transition(ctx, &record, station, update); err != nil {
			return nil, transitionError(record, station, from, update.Status, err)
		}
		record.LastUpdated = s.opts.timestamp()

		records[i] = record
		updated = record
		return records, nil
	})
	if err != nil {
		return nil, s.storeError("update station", ref, err)
	}

	to := updated.Workflow[station].Status
	s.logger.Info("Station updated",
		"id", updated.ID,
		"station", station.ID(),
		"from", from,
		"to", to,
		"actor", actor,
	)
	if from != to {
		s.opts.publish(ctx, s.logger, event.NewEvent(event.TypeStationTransition, updated.ID, map[string]interface{}{
			"station": station.ID(),
			"from":    string(from),
			"to":      string(to),
		}).WithActor(actor))
	}
	return &updated, nil
}

func transitionError(record entity.Record, station domainwf.Station, from, to domainwf.State, err error) error {
	switch {
	case errors.Is(err, domainwf.ErrGuardFailed):
		return wrapUserError(ErrValidation,
			fmt.Sprintf("%s does not apply to the %s category.", station.Label(), record.Category), err)
	case errors.Is(err, domainwf.ErrInvalidState):
		return wrapUserError(ErrValidation, fmt.Sprintf("Unknown station status %q.", to), err)
	case errors.Is(err, domainwf.ErrInvalidTransition):
		return wrapUserError(ErrValidation,
			fmt.Sprintf("%s cannot move from %s to %s.", station.Label(), from, to), err)
	}
	return err
}

// SetDocumentChecked sets a checklist flag without touching any attached file
func (s *recordServiceImpl) SetDocumentChecked(ctx context.Context, actor, ref, slotID string, checked bool) (*entity.Record, error) {
	slot, err := parseSlot(slotID)
	if err != nil {
		return nil, err
	}

	updated, err := s.mutate(ctx, "check document", ref, func(record *entity.Record) error {
		record.Documents[slot].Checked = checked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.publish(ctx, s.logger, event.NewEvent(event.TypeDocumentChecked, updated.ID, map[string]interface{}{
		"document": slot.ID(),
		"checked":  checked,
	}).WithActor(actor))
	return updated, nil
}

// AttachDocument stores the upload inline and marks the slot checked
func (s *recordServiceImpl) AttachDocument(ctx context.Context, actor, ref, slotID string, upload Upload) (*entity.Record, error) {
	slot, err := parseSlot(slotID)
	if err != nil {
		return nil, err
	}

	file, err := s.buildAttachment(upload)
	if err != nil {
		return nil, err
	}

	updated, err := s.mutate(ctx, "attach document", ref, func(record *entity.Record) error {
		record.Documents[slot] = entity.DocumentEntry{Checked: true, File: file}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Document attached",
		"id", updated.ID,
		"document", slot.ID(),
		"file", file.Name,
		"size", file.Size,
	)
	s.opts.publish(ctx, s.logger, event.NewEvent(event.TypeDocumentAttached, updated.ID, map[string]interface{}{
		"document": slot.ID(),
		"size":     file.Size,
	}).WithActor(actor))
	return updated, nil
}

func (s *recordServiceImpl) buildAttachment(upload Upload) (*entity.ProcurementFile, error) {
	name := filepath.Base(strings.TrimSpace(upload.Name))
	ext := strings.ToLower(filepath.Ext(name))
	defaultType, ok := allowedAttachments[ext]
	if !ok || name == "" || name == "." {
		return nil, newUserError(ErrValidation, MsgUnsupportedFile)
	}

	contentType := upload.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		if t := mime.TypeByExtension(ext); t != "" {
			contentType = t
		} else {
			contentType = defaultType
		}
	}

	file := &entity.ProcurementFile{
		Name:       name,
		Type:       contentType,
		Size:       int64(len(upload.Data)),
		Data:       encodeDataURL(contentType, upload.Data),
		UploadedAt: s.opts.timestamp(),
	}

	if ext == ".pdf" && s.opts.inspector != nil {
		pages, err := s.opts.inspector.PageCount(upload.Data)
		if err != nil {
			return nil, wrapUserError(ErrValidation, MsgUnreadablePDF, err)
		}
		file.Pages = pages
	}
	return file, nil
}

// Document returns the attached file and its decoded content
func (s *recordServiceImpl) Document(ctx context.Context, ref, slotID string) (*entity.ProcurementFile, []byte, error) {
	slot, err := parseSlot(slotID)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.Get(ctx, ref)
	if err != nil {
		return nil, nil, err
	}

	file := record.Documents[slot].File
	if file == nil {
		return nil, nil, newUserError(ErrNotFound, MsgNoFile)
	}

	data, err := decodeDataURL(file.Data)
	if err != nil {
		s.logger.Error("Stored attachment is unreadable", "id", record.ID, "document", slot.ID(), "error", err)
		return nil, nil, fmt.Errorf("decode attachment %s: %w", slot.ID(), err)
	}
	return file, data, nil
}

// Dashboard aggregates the whole registry
func (s *recordServiceImpl) Dashboard(ctx context.Context) query.Stats {
	return query.Dashboard(s.store.Load(ctx))
}

// WorkflowMap shows what each station is holding
func (s *recordServiceImpl) WorkflowMap(ctx context.Context, limit int) []query.StationColumn {
	return query.WorkflowMap(s.store.Load(ctx), limit)
}

func (s *recordServiceImpl) Stations() []workflow.StationInfo {
	return s.engine.Stations()
}

// Seed writes the example record into an empty registry
func (s *recordServiceImpl) Seed(ctx context.Context) (bool, error) {
	seeded, err := s.store.SeedIfEmpty(ctx)
	if err != nil {
		s.logger.Error("Failed to seed registry", "error", err)
		return false, fmt.Errorf("seed records: %w", err)
	}
	return seeded, nil
}

// mutate applies fn to one record inside a single store update and stamps it
func (s *recordServiceImpl) mutate(ctx context.Context, op, ref string, fn func(record *entity.Record) error) (*entity.Record, error) {
	var updated entity.Record
	err := s.store.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		i := findRecord(records, ref)
		if i < 0 {
			return nil, newUserError(ErrNotFound, MsgRecordNotFound)
		}

		record := records[i]
		if err := fn(&record); err != nil {
			return nil, err
		}
		record.LastUpdated = s.opts.timestamp()

		records[i] = record
		updated = record
		return records, nil
	})
	if err != nil {
		return nil, s.storeError(op, ref, err)
	}
	return &updated, nil
}

// storeError passes user errors through and wraps persistence failures
func (s *recordServiceImpl) storeError(op, ref string, err error) error {
	if isUserError(err) {
		return err
	}
	s.logger.Error("Failed to "+op, "ref", ref, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

func validateRecord(r *entity.Record) error {
	r.SupplierName = utils.SanitizeString(r.SupplierName)
	if r.SupplierName == "" {
		return newUserError(ErrValidation, MsgSupplierRequired)
	}
	if err := errors.Join(utils.ValidateAmount(r.Amount), utils.ValidateAmount(r.POAmount)); err != nil {
		return wrapUserError(ErrValidation, MsgNegativeAmount, err)
	}

	if r.Category == "" {
		r.Category = entity.DefaultCategory()
	} else if !r.Category.IsValid() {
		return newUserError(ErrValidation, MsgUnknownCategory)
	}

	if r.Status == "" {
		r.Status = entity.StatusRequested
	} else if !r.Status.IsValid() {
		return newUserError(ErrValidation, MsgUnknownStatus)
	}
	return nil
}

func parseSlot(slotID string) (entity.DocumentSlot, error) {
	slot, err := entity.ParseDocumentSlot(slotID)
	if err != nil {
		return 0, wrapUserError(ErrValidation, fmt.Sprintf("Unknown document %q.", slotID), err)
	}
	return slot, nil
}

// findRecord matches the opaque id first, then the record number
func findRecord(records []entity.Record, ref string) int {
	for i, r := range records {
		if r.ID == ref {
			return i
		}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		for i, r := range records {
			if r.RecordID == n {
				return i
			}
		}
	}
	return -1
}
