package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/procureflow/registry/internal/application/service"
)

// HeaderUser carries the acting username on write requests
const HeaderUser = "X-User"

const msgInternal = "internal server error"

// Handlers contains all HTTP request handlers
type Handlers struct {
	records   service.RecordService
	transfer  service.TransferService
	auth      service.AuthService
	health    HealthFunc
	maxUpload int64
	logger    Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, health HealthFunc, maxUpload int64, logger Logger) *Handlers {
	return &Handlers{
		records:   services.Records,
		transfer:  services.Transfer,
		auth:      services.Auth,
		health:    health,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Version    string      `json:"version"`
	Components interface{} `json:"components,omitempty"`
}

// Version is reported by /health
var Version = "dev"

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	}

	code := http.StatusOK
	if h.health != nil {
		ok, details := h.health(c.Request.Context())
		response.Components = details
		if !ok {
			response.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, Response{
		Success: code == http.StatusOK,
		Data:    response,
	})
}

func ok(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Response{Success: true, Data: data})
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{Success: false, Error: message})
}

// respondError maps service error kinds to status codes. Errors without a
// user-facing message are logged and reported as a generic 500.
func (h *Handlers) respondError(c *gin.Context, op string, err error) {
	var code int
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrImportFormat):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		code = http.StatusConflict
	default:
		h.logger.Error("Request failed", "op", op, "path", c.Request.URL.Path, "error", err)
		fail(c, http.StatusInternalServerError, msgInternal)
		return
	}
	fail(c, code, service.UserMessage(err, err.Error()))
}

// actor returns the acting username from the X-User header, falling back to
// a "user" form or query field
func actor(c *gin.Context) string {
	if u := strings.TrimSpace(c.GetHeader(HeaderUser)); u != "" {
		return u
	}
	return strings.TrimSpace(c.Request.FormValue("user"))
}

// limitBody caps request bodies on upload routes
func (h *Handlers) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
		c.Next()
	}
}

// attachment sends content as a download
func attachment(c *gin.Context, name, contentType string, content []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, content)
}
