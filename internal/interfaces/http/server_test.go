package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/procureflow/registry/internal/application/service"
	"github.com/procureflow/registry/internal/application/store"
	"github.com/procureflow/registry/internal/application/workflow"
	"github.com/procureflow/registry/internal/domain/entity"
	domainwf "github.com/procureflow/registry/internal/domain/workflow"
	"github.com/procureflow/registry/internal/infrastructure/metrics"
	"github.com/procureflow/registry/internal/infrastructure/pdf"
	"github.com/procureflow/registry/internal/infrastructure/persistence/memory"
	"github.com/procureflow/registry/internal/infrastructure/spreadsheet"
	"github.com/procureflow/registry/pkg/utils"
)

var fixedNow = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	records *store.RecordStore
}

func newTestServer(t *testing.T, maxUpload int64) *testServer {
	t.Helper()
	logger := zap.NewNop()
	kv := utils.NewLoggerAdapter(logger)

	records := store.NewRecordStore(memory.NewBlobStore(), logger)
	users := store.NewUserStore(memory.NewBlobStore(), logger)
	opts := []service.Option{
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithInspector(pdf.NewInspector(logger)),
	}

	services := Services{
		Records:  service.NewRecordService(records, workflow.NewEngine(), kv, opts...),
		Transfer: service.NewTransferService(records, spreadsheet.NewCodec(logger), pdf.NewRenderer(nil, logger), kv, opts...),
		Auth:     service.NewAuthService(users, kv, opts...),
	}

	cfg := DefaultServerConfig()
	cfg.Mode = gin.TestMode
	cfg.MaxUploadBytes = maxUpload
	server := NewServer(cfg, services, kv,
		WithMetrics(metrics.New()),
		WithHealth(func(ctx context.Context) (bool, interface{}) { return true, map[string]bool{"storage": true} }),
	)
	return &testServer{t: t, router: server.Router(), records: records}
}

func (s *testServer) do(method, path string, body interface{}, user string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(HeaderUser, user)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(path, filename string, content []byte, user string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(s.t, err)
	_, err = part.Write(content)
	require.NoError(s.t, err)
	if user != "" {
		require.NoError(s.t, w.WriteField("user", user))
	}
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (s *testServer) create(supplier string, category entity.Category) entity.Record {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/records", map[string]interface{}{
		"supplierName": supplier,
		"category":     category,
		"amount":       1500,
	}, "alice")
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var out entity.Record
	decode(s.t, rec, &out)
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	env := decode(t, rec, &health)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", health.Status)

	rec = s.do(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "procureflow_http_requests_total")
}

func TestRecordCRUD(t *testing.T) {
	s := newTestServer(t, 1<<20)

	created := s.create("Office Depot", entity.CategoryOfficeSupplies)
	assert.Equal(t, "alice", created.CreatedBy)
	assert.Equal(t, "2024-01-15", created.DateRequested)
	assert.Equal(t, entity.StatusRequested, created.Status)

	t.Run("get by id and record number", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/records/"+created.ID, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(http.MethodGet, "/api/records/"+strconv.Itoa(created.RecordID), nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing supplier is rejected", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/records", map[string]interface{}{"supplierName": "  "}, "alice")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decode(t, rec, nil)
		assert.False(t, env.Success)
		assert.Equal(t, service.MsgSupplierRequired, env.Error)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		rec := s.do(http.MethodPut, "/api/records/"+created.ID, map[string]interface{}{"notes": "rush"}, "bob")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated entity.Record
		decode(t, rec, &updated)
		assert.Equal(t, "rush", updated.Notes)
		assert.Equal(t, "Office Depot", updated.SupplierName)
		assert.InDelta(t, 1500.0, updated.Amount, 0.001)
	})

	t.Run("partial nested update keeps other slots and stations", func(t *testing.T) {
		png := []byte("\x89PNG\r\n\x1a\ncanvass")
		rec := s.upload("/api/records/"+created.ID+"/documents/canvass/file", "canvass.png", png, "alice")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		rec = s.do(http.MethodPut, "/api/records/"+created.ID+"/stations/cmo", map[string]string{"status": "processing"}, "alice")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = s.do(http.MethodPut, "/api/records/"+created.ID, map[string]interface{}{
			"documents": map[string]interface{}{"omnibus": map[string]bool{"checked": true}},
			"workflow":  map[string]interface{}{"budget": map[string]string{"status": "processing"}},
		}, "bob")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated entity.Record
		decode(t, rec, &updated)
		assert.True(t, updated.Documents[entity.DocOmnibus].Checked)
		assert.True(t, updated.Documents[entity.DocCanvass].Checked)
		require.NotNil(t, updated.Documents[entity.DocCanvass].File)
		assert.Equal(t, "canvass.png", updated.Documents[entity.DocCanvass].File.Name)
		assert.Equal(t, domainwf.StateProcessing, updated.Workflow[domainwf.StationCMO].Status)
		assert.Equal(t, domainwf.StateProcessing, updated.Workflow[domainwf.StationBudget].Status)

		rec = s.do(http.MethodGet, "/api/records/"+created.ID+"/documents/canvass/file", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, png, rec.Body.Bytes())
	})

	t.Run("unknown record", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/records/nope", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, service.MsgRecordNotFound, decode(t, rec, nil).Error)
	})

	t.Run("delete", func(t *testing.T) {
		rec := s.do(http.MethodDelete, "/api/records/"+created.ID, nil, "alice")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(http.MethodGet, "/api/records/"+created.ID, nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListViews(t *testing.T) {
	s := newTestServer(t, 1<<20)
	s.create("Office Depot", entity.CategoryOfficeSupplies)
	s.create("Tech Hub", entity.CategoryCapitalOutlay)
	s.create("Paper Co", entity.CategoryOfficeSupplies)

	var result service.ListResult
	rec := s.do(http.MethodGet, "/api/records?view=by-category", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &result)
	require.Len(t, result.Groups, 2)
	assert.Equal(t, string(entity.CategoryOfficeSupplies), result.Groups[0].Key)
	assert.Len(t, result.Groups[0].Records, 2)

	rec = s.do(http.MethodGet, "/api/records?q=tech", nil, "")
	decode(t, rec, &result)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Tech Hub", result.Records[0].SupplierName)

	rec = s.do(http.MethodGet, "/api/records?view=sideways", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStationTransitions(t *testing.T) {
	s := newTestServer(t, 1<<20)
	created := s.create("Office Depot", entity.CategoryOfficeSupplies)
	path := "/api/records/" + created.ID + "/stations/"

	rec := s.do(http.MethodPut, path+"cmo", map[string]interface{}{
		"status":       "processing",
		"receivedDate": "2024-01-16",
	}, "alice")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated entity.Record
	decode(t, rec, &updated)
	assert.Equal(t, "2024-01-16", updated.Workflow[0].ReceivedDate)

	rec = s.do(http.MethodPut, path+"bac", map[string]interface{}{"status": "completed"}, "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, path+"it", map[string]interface{}{"status": "pending"}, "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, path+"moon", map[string]interface{}{"status": "pending"}, "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/workflow-map", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var columns []map[string]interface{}
	decode(t, rec, &columns)
	require.NotEmpty(t, columns)
	assert.Equal(t, float64(1), columns[0]["processing"])
}

func TestDocuments(t *testing.T) {
	s := newTestServer(t, 1<<10)
	created := s.create("Office Depot", entity.CategoryOfficeSupplies)
	base := "/api/records/" + created.ID + "/documents/"

	t.Run("check and uncheck", func(t *testing.T) {
		rec := s.do(http.MethodPut, base+"obr/check", map[string]bool{"checked": true}, "alice")
		require.Equal(t, http.StatusOK, rec.Code)
		var updated entity.Record
		decode(t, rec, &updated)
		assert.True(t, updated.Documents[entity.DocOBR].Checked)

		rec = s.do(http.MethodPut, base+"obr/check", map[string]string{}, "alice")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(http.MethodPut, base+"receipt/check", map[string]bool{"checked": true}, "alice")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upload and download", func(t *testing.T) {
		content := []byte("\x89PNG\r\n\x1a\nfake image")
		rec := s.upload(base+"soa/file", "soa.png", content, "alice")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated entity.Record
		decode(t, rec, &updated)
		require.NotNil(t, updated.Documents[entity.DocSOA].File)
		assert.True(t, updated.Documents[entity.DocSOA].Checked)
		assert.Equal(t, "soa.png", updated.Documents[entity.DocSOA].File.Name)

		rec = s.do(http.MethodGet, base+"soa/file", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, content, rec.Body.Bytes())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "soa.png")
	})

	t.Run("rejected uploads", func(t *testing.T) {
		rec := s.upload(base+"ris/file", "script.exe", []byte("MZ"), "alice")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, service.MsgUnsupportedFile, decode(t, rec, nil).Error)

		rec = s.upload(base+"ris/file", "bad.pdf", []byte("not a pdf"), "alice")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.upload(base+"ris/file", "big.png", bytes.Repeat([]byte("x"), 4<<10), "alice")
		assert.Contains(t, []int{http.StatusRequestEntityTooLarge, http.StatusBadRequest}, rec.Code)

		rec = s.do(http.MethodGet, base+"ris/file", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := s.do(http.MethodPost, "/api/auth/register", service.RegisterInput{
		Username: "Alice", Password: "pw", ConfirmPassword: "pw",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var user entity.User
	decode(t, rec, &user)
	assert.Equal(t, "Alice", user.Username)
	assert.Empty(t, user.Password)

	rec = s.do(http.MethodPost, "/api/auth/register", service.RegisterInput{
		Username: "alice", Password: "x", ConfirmPassword: "x",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/register", service.RegisterInput{
		Username: "carol", Password: "a", ConfirmPassword: "b",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgPasswordMismatch, decode(t, rec, nil).Error)

	rec = s.do(http.MethodPost, "/api/auth/login", LoginRequest{Username: "ALICE", Password: "pw"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", LoginRequest{Username: "alice", Password: "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.MsgInvalidCredentials, decode(t, rec, nil).Error)

	rec = s.do(http.MethodPut, "/api/auth/password", service.ChangePasswordInput{
		CurrentPassword: "pw", NewPassword: "new", ConfirmPassword: "new",
	}, "alice")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/login", LoginRequest{Username: "alice", Password: "new"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/users", nil, "")
	var users []entity.User
	decode(t, rec, &users)
	assert.Len(t, users, 1)
}

func TestImportExport(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := s.do(http.MethodGet, "/api/export", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgNoDataToExport, decode(t, rec, nil).Error)

	created := s.create("Office Depot", entity.CategoryOfficeSupplies)

	rec = s.do(http.MethodGet, "/api/export", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ProcureFlow_Registry_2024-01-15.xlsx")
	workbook := rec.Body.Bytes()

	rec = s.do(http.MethodGet, "/api/records/"+created.ID+"/export.pdf", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ContentTypePDF, rec.Header().Get("Content-Type"))

	rec = s.do(http.MethodGet, "/api/records/"+created.ID+"/export.xlsx", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// re-importing our own export adds nothing
	rec = s.upload("/api/import", "registry.xlsx", workbook, "bob")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result service.ImportResult
	decode(t, rec, &result)
	assert.Equal(t, 1, result.Detected)
	assert.Zero(t, result.Added)

	require.NoError(t, s.records.Save(context.Background(), nil))
	rec = s.upload("/api/import", "registry.xlsx", workbook, "bob")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &result)
	assert.Equal(t, 1, result.Added)

	rec = s.upload("/api/import", "registry.xlsx", []byte("garbage"), "bob")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgImportFailed, decode(t, rec, nil).Error)

	rec = s.upload("/api/import", "registry.xlsx", workbook, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, 1<<20)
	s.create("Office Depot", entity.CategoryOfficeSupplies)

	rec := s.do(http.MethodGet, "/api/dashboard", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]interface{}
	decode(t, rec, &stats)
	assert.Equal(t, float64(1), stats["total"])
	assert.Equal(t, float64(1500), stats["totalAmount"])

	rec = s.do(http.MethodGet, "/api/stations", nil, "")
	var stations []workflow.StationInfo
	decode(t, rec, &stations)
	assert.Len(t, stations, 9)
}
