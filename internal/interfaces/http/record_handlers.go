package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/procureflow/registry/internal/application/service"
	"github.com/procureflow/registry/internal/application/workflow"
	"github.com/procureflow/registry/internal/domain/entity"
	domainwf "github.com/procureflow/registry/internal/domain/workflow"
)

// StationRequest is the body of a station update
type StationRequest struct {
	Status       domainwf.State `json:"status"`
	ReceivedDate *string        `json:"receivedDate"`
	ReleasedDate *string        `json:"releasedDate"`
}

// CheckRequest is the body of a checklist toggle
type CheckRequest struct {
	Checked *bool `json:"checked"`
}

// ListRecords handles GET /api/records?view=&q=
func (h *Handlers) ListRecords(c *gin.Context) {
	result, err := h.records.List(c.Request.Context(), c.Query("view"), c.Query("q"))
	if err != nil {
		h.respondError(c, "list records", err)
		return
	}
	ok(c, http.StatusOK, result)
}

// GetRecord handles GET /api/records/:id
func (h *Handlers) GetRecord(c *gin.Context) {
	record, err := h.records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get record", err)
		return
	}
	ok(c, http.StatusOK, record)
}

// CreateRecord handles POST /api/records
func (h *Handlers) CreateRecord(c *gin.Context) {
	input := entity.NewRecord()
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.records.Create(c.Request.Context(), actor(c), input)
	if err != nil {
		h.respondError(c, "create record", err)
		return
	}
	ok(c, http.StatusCreated, record)
}

// UpdateRecord handles PUT /api/records/:id. The body is applied on top of
// the stored record, so omitted fields keep their values.
func (h *Handlers) UpdateRecord(c *gin.Context) {
	ctx := c.Request.Context()
	existing, err := h.records.Get(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, "update record", err)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	input := existing.Clone()
	if err := json.Unmarshal(body, &input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.records.Update(ctx, actor(c), c.Param("id"), input)
	if err != nil {
		h.respondError(c, "update record", err)
		return
	}
	ok(c, http.StatusOK, record)
}

// DeleteRecord handles DELETE /api/records/:id
func (h *Handlers) DeleteRecord(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		h.respondError(c, "delete record", err)
		return
	}
	ok(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// UpdateStation handles PUT /api/records/:id/stations/:station
func (h *Handlers) UpdateStation(c *gin.Context) {
	var req StationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.records.UpdateStation(c.Request.Context(), actor(c), c.Param("id"), c.Param("station"), workflow.StationUpdate{
		Status:       req.Status,
		ReceivedDate: req.ReceivedDate,
		ReleasedDate: req.ReleasedDate,
	})
	if err != nil {
		h.respondError(c, "update station", err)
		return
	}
	ok(c, http.StatusOK, record)
}

// CheckDocument handles PUT /api/records/:id/documents/:slot/check
func (h *Handlers) CheckDocument(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Checked == nil {
		fail(c, http.StatusBadRequest, "checked is required")
		return
	}

	record, err := h.records.SetDocumentChecked(c.Request.Context(), actor(c), c.Param("id"), c.Param("slot"), *req.Checked)
	if err != nil {
		h.respondError(c, "check document", err)
		return
	}
	ok(c, http.StatusOK, record)
}

// AttachDocument handles POST /api/records/:id/documents/:slot/file
func (h *Handlers) AttachDocument(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.uploadError(c, err)
		return
	}

	f, err := header.Open()
	if err != nil {
		h.uploadError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.uploadError(c, err)
		return
	}

	record, err := h.records.AttachDocument(c.Request.Context(), actor(c), c.Param("id"), c.Param("slot"), service.Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.respondError(c, "attach document", err)
		return
	}
	ok(c, http.StatusOK, record)
}

// DownloadDocument handles GET /api/records/:id/documents/:slot/file
func (h *Handlers) DownloadDocument(c *gin.Context) {
	file, data, err := h.records.Document(c.Request.Context(), c.Param("id"), c.Param("slot"))
	if err != nil {
		h.respondError(c, "download document", err)
		return
	}
	attachment(c, file.Name, file.Type, data)
}

// Dashboard handles GET /api/dashboard
func (h *Handlers) Dashboard(c *gin.Context) {
	ok(c, http.StatusOK, h.records.Dashboard(c.Request.Context()))
}

// WorkflowMap handles GET /api/workflow-map?limit=
func (h *Handlers) WorkflowMap(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	ok(c, http.StatusOK, h.records.WorkflowMap(c.Request.Context(), limit))
}

// Stations handles GET /api/stations
func (h *Handlers) Stations(c *gin.Context) {
	ok(c, http.StatusOK, h.records.Stations())
}

func (h *Handlers) uploadError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		fail(c, http.StatusRequestEntityTooLarge, "file too large")
	case errors.Is(err, http.ErrMissingFile):
		fail(c, http.StatusBadRequest, service.MsgNoFile)
	default:
		fail(c, http.StatusBadRequest, "invalid upload")
	}
}
