package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	labelingapp "github.com/marketops/backend/internal/application/labeling"
	rendering "github.com/marketops/backend/internal/infrastructure/labeling"
	"github.com/marketops/backend/internal/infrastructure/persistence"
	"github.com/marketops/backend/internal/infrastructure/textpipe"
	"github.com/marketops/backend/internal/interfaces/http/handler"
	"github.com/marketops/backend/internal/interfaces/http/middleware"
	"github.com/marketops/backend/internal/interfaces/http/router"
)

// labelingTestServer wires the full labeling stack against a real PostgreSQL
// container, mirroring the production wiring in cmd/server.
type labelingTestServer struct {
	engine *gin.Engine
	db     *TestDB
}

func newLabelingTestServer(t *testing.T) *labelingTestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	tdb := NewTestDB(t)

	templateRepo := persistence.NewGormLabelTemplateRepository(tdb.DB)
	settingsRepo := persistence.NewGormLabelSettingsRepository(tdb.DB)
	jobRepo := persistence.NewGormLabelJobRepository(tdb.DB)
	orderReader := persistence.NewGormOrderReader(tdb.DB)

	formatter := textpipe.NewFormatter("en-US", "USD")
	preview := rendering.NewPreviewRenderer(formatter)
	pdf := rendering.NewPDFRenderer(&rendering.PDFRendererConfig{
		Timeout:       10 * time.Second,
		MaxConcurrent: 2,
	}, formatter)

	storage, err := rendering.NewFileSystemStorage(&rendering.FileSystemStorageConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/api/v1/labels/files",
	})
	require.NoError(t, err, "Failed to create filesystem storage")

	sender := rendering.SenderProfile{
		Name:         "MarketOps Fulfillment",
		Phone:        "+1 555 0100",
		AddressLine1: "1 Warehouse Way",
		City:         "Springfield",
		PostalCode:   "62704",
		Country:      "US",
	}

	service := labelingapp.NewService(
		templateRepo, settingsRepo, jobRepo, orderReader,
		preview, pdf, storage, sender, zap.NewNop(),
	)

	engine := gin.New()
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.LabelRoutes(handler.NewLabelHandler(service)))
	r.Setup()

	return &labelingTestServer{engine: engine, db: tdb}
}

// do performs a request against the test server under the given tenant
func (s *labelingTestServer) do(t *testing.T, method, path, tenantID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tenantID != "" {
		req.Header.Set("X-Tenant-ID", tenantID)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

// apiEnvelope mirrors the response wrapper for decoding in assertions
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "Failed to decode response envelope")
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success, "Expected success response, got: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out), "Failed to decode response data")
}

// templateBody builds a designer document with a static text element, a
// bound recipient element, and a tracking-number barcode
func templateBody(name string) map[string]any {
	return map[string]any{
		"name": name,
		"config": map[string]any{
			"paperSize":   "A4",
			"orientation": "PORTRAIT",
			"margins":     map[string]any{"top": 10, "right": 10, "bottom": 10, "left": 10},
			"defaultFont": map[string]any{
				"fontFamily": "Helvetica",
				"fontSize":   10,
				"fontWeight": "normal",
				"fontStyle":  "normal",
				"color":      "#000000",
				"lineHeight": 1.2,
			},
		},
		"elements": []map[string]any{
			{
				"id":          uuid.NewString(),
				"type":        "TEXT",
				"position":    map[string]any{"x": 10, "y": 10},
				"size":        map[string]any{"width": 80, "height": 8},
				"staticValue": "SHIP TO",
			},
			{
				"id":          uuid.NewString(),
				"type":        "TEXT",
				"position":    map[string]any{"x": 10, "y": 20},
				"size":        map[string]any{"width": 80, "height": 8},
				"bindingPath": "recipient.name",
			},
			{
				"id":          uuid.NewString(),
				"type":        "BARCODE",
				"position":    map[string]any{"x": 10, "y": 40},
				"size":        map[string]any{"width": 60, "height": 20},
				"bindingPath": "shipping.trackingNumber",
			},
		},
	}
}

func TestLabelTemplateLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := newLabelingTestServer(t)
	tenant := uuid.NewString()

	// Create
	rec := server.do(t, http.MethodPost, "/api/v1/labels/templates", tenant, templateBody("Standard A4"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created labelingapp.TemplateResponse
	decodeData(t, rec, &created)
	assert.Equal(t, "Standard A4", created.Name)
	assert.Equal(t, 1, created.Version)
	assert.Len(t, created.Elements, 3)

	// Duplicate name is rejected
	rec = server.do(t, http.MethodPost, "/api/v1/labels/templates", tenant, templateBody("Standard A4"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// List
	rec = server.do(t, http.MethodGet, "/api/v1/labels/templates", tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	// Get
	rec = server.do(t, http.MethodGet, "/api/v1/labels/templates/"+created.ID, tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Update with the loaded version bumps it
	update := templateBody("Standard A4 v2")
	update["version"] = created.Version
	rec = server.do(t, http.MethodPut, "/api/v1/labels/templates/"+created.ID, tenant, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated labelingapp.TemplateResponse
	decodeData(t, rec, &updated)
	assert.Equal(t, "Standard A4 v2", updated.Name)
	assert.Equal(t, 2, updated.Version)

	// Stale version token conflicts
	stale := templateBody("Standard A4 v3")
	stale["version"] = created.Version
	rec = server.do(t, http.MethodPut, "/api/v1/labels/templates/"+created.ID, tenant, stale)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Duplicate makes a copy under a derived name
	rec = server.do(t, http.MethodPost, "/api/v1/labels/templates/"+created.ID+"/duplicate", tenant, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var duplicated labelingapp.TemplateResponse
	decodeData(t, rec, &duplicated)
	assert.Equal(t, "Standard A4 v2 (copy)", duplicated.Name)
	assert.NotEqual(t, updated.ID, duplicated.ID)

	// Delete
	rec = server.do(t, http.MethodDelete, "/api/v1/labels/templates/"+created.ID, tenant, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/v1/labels/templates/"+created.ID, tenant, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDefaultTemplatePointer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := newLabelingTestServer(t)
	tenant := uuid.NewString()

	rec := server.do(t, http.MethodPost, "/api/v1/labels/templates", tenant, templateBody("Default Candidate"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created labelingapp.TemplateResponse
	decodeData(t, rec, &created)

	// Unset pointer reads as null
	rec = server.do(t, http.MethodGet, "/api/v1/labels/settings/default-template", tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pointer labelingapp.DefaultTemplateResponse
	decodeData(t, rec, &pointer)
	assert.Nil(t, pointer.DefaultTemplateID)

	// Set
	rec = server.do(t, http.MethodPut, "/api/v1/labels/settings/default-template", tenant,
		map[string]any{"template_id": created.ID})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = server.do(t, http.MethodGet, "/api/v1/labels/settings/default-template", tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &pointer)
	require.NotNil(t, pointer.DefaultTemplateID)
	assert.Equal(t, created.ID, *pointer.DefaultTemplateID)

	// Pointing at a missing template is rejected
	rec = server.do(t, http.MethodPut, "/api/v1/labels/settings/default-template", tenant,
		map[string]any{"template_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Deleting the template clears the pointer
	rec = server.do(t, http.MethodDelete, "/api/v1/labels/templates/"+created.ID, tenant, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/v1/labels/settings/default-template", tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &pointer)
	assert.Nil(t, pointer.DefaultTemplateID)
}

func TestLabelRenderingPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := newLabelingTestServer(t)
	tenantID := uuid.New()
	tenant := tenantID.String()

	orderID := server.db.SeedOrder(tenantID, "ORD-2026-0001")

	rec := server.do(t, http.MethodPost, "/api/v1/labels/templates", tenant, templateBody("Shipping Label"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var template labelingapp.TemplateResponse
	decodeData(t, rec, &template)

	// Preview with an explicit template
	rec = server.do(t, http.MethodPost, "/api/v1/labels/preview", tenant,
		map[string]any{"template_id": template.ID, "order_id": orderID.String()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data)

	// Generate resolves the tenant default when no template is given;
	// without a default and with one template, the sole template is used
	rec = server.do(t, http.MethodPost, "/api/v1/labels/generate", tenant,
		map[string]any{"order_id": orderID.String()})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var generated labelingapp.GenerateResponse
	decodeData(t, rec, &generated)
	assert.Equal(t, "COMPLETED", generated.Job.Status)
	assert.Equal(t, "ORD-2026-0001", generated.Job.OrderNumber)
	assert.NotEmpty(t, generated.ArtifactURL)

	// Job is listed and downloadable
	rec = server.do(t, http.MethodGet, "/api/v1/labels/jobs", tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	rec = server.do(t, http.MethodGet, "/api/v1/labels/jobs/"+generated.Job.ID+"/download", tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")), "Download should stream a PDF")

	// Unknown order
	rec = server.do(t, http.MethodPost, "/api/v1/labels/generate", tenant,
		map[string]any{"order_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A tenant with no templates at all cannot render
	emptyTenant := uuid.NewString()
	rec = server.do(t, http.MethodPost, "/api/v1/labels/generate", emptyTenant,
		map[string]any{"order_id": orderID.String()})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}

func TestLabelTenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := newLabelingTestServer(t)
	tenantA := uuid.NewString()
	tenantB := uuid.NewString()

	rec := server.do(t, http.MethodPost, "/api/v1/labels/templates", tenantA, templateBody("Tenant A Only"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created labelingapp.TemplateResponse
	decodeData(t, rec, &created)

	// Tenant B sees nothing
	rec = server.do(t, http.MethodGet, "/api/v1/labels/templates", tenantB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(0), env.Meta.Total)

	// Cross-tenant reads and writes resolve to not found
	rec = server.do(t, http.MethodGet, "/api/v1/labels/templates/"+created.ID, tenantB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = server.do(t, http.MethodDelete, "/api/v1/labels/templates/"+created.ID, tenantB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Tenant A still has its template
	rec = server.do(t, http.MethodGet, "/api/v1/labels/templates/"+created.ID, tenantA, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLabelTemplateExportImport(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := newLabelingTestServer(t)
	tenant := uuid.NewString()

	rec := server.do(t, http.MethodPost, "/api/v1/labels/templates", tenant, templateBody("Portable"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created labelingapp.TemplateResponse
	decodeData(t, rec, &created)

	rec = server.do(t, http.MethodGet, fmt.Sprintf("/api/v1/labels/templates/%s/export", created.ID), tenant, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	exported := rec.Body.Bytes()
	require.NotEmpty(t, exported)

	// Importing the export under another tenant recreates the document
	otherTenant := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/labels/templates/import", bytes.NewReader(exported))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", otherTenant)
	imp := httptest.NewRecorder()
	server.engine.ServeHTTP(imp, req)
	require.Equal(t, http.StatusCreated, imp.Code, imp.Body.String())

	var imported labelingapp.TemplateResponse
	decodeData(t, imp, &imported)
	assert.Equal(t, "Portable", imported.Name)
	assert.Len(t, imported.Elements, 3)
	assert.NotEqual(t, created.ID, imported.ID)
}
