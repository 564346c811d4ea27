package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procureflow/registry/internal/application/service"
)

// Import handles POST /api/import (multipart field "file")
func (h *Handlers) Import(c *gin.Context) {
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

	result, err := h.transfer.Import(c.Request.Context(), actor(c), f)
	if err != nil {
		h.respondError(c, "import", err)
		return
	}
	ok(c, http.StatusOK, result)
}

// ExportRegistry handles GET /api/export
func (h *Handlers) ExportRegistry(c *gin.Context) {
	h.sendExport(c, "export registry", func() (*service.ExportFile, error) {
		return h.transfer.ExportRegistry(c.Request.Context())
	})
}

// ExportRecordWorkbook handles GET /api/records/:id/export.xlsx
func (h *Handlers) ExportRecordWorkbook(c *gin.Context) {
	h.sendExport(c, "export record workbook", func() (*service.ExportFile, error) {
		return h.transfer.ExportRecordWorkbook(c.Request.Context(), c.Param("id"))
	})
}

// ExportRecordPDF handles GET /api/records/:id/export.pdf
func (h *Handlers) ExportRecordPDF(c *gin.Context) {
	h.sendExport(c, "export record pdf", func() (*service.ExportFile, error) {
		return h.transfer.ExportRecordPDF(c.Request.Context(), c.Param("id"))
	})
}

func (h *Handlers) sendExport(c *gin.Context, op string, export func() (*service.ExportFile, error)) {
	file, err := export()
	if err != nil {
		h.respondError(c, op, err)
		return
	}
	attachment(c, file.Name, file.ContentType, file.Content)
}
