package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Castore1977/project-track/application/ports"
	"github.com/Castore1977/project-track/application/queries"
	"github.com/Castore1977/project-track/application/services"
	"github.com/Castore1977/project-track/domain/core/validators"
	"github.com/Castore1977/project-track/domain/versioning"
	"github.com/Castore1977/project-track/infrastructure/cache"
	"github.com/Castore1977/project-track/infrastructure/config"
	"github.com/Castore1977/project-track/infrastructure/messaging"
	"github.com/Castore1977/project-track/infrastructure/persistence/memory"
	"github.com/Castore1977/project-track/infrastructure/persistence/schema"
	pkgerrors "github.com/Castore1977/project-track/pkg/errors"
	"github.com/Castore1977/project-track/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		Count int `json:"count"`
	} `json:"meta"`
}

type engineBody struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Versions []struct {
		VersionID    string `json:"versionId"`
		ValidityDate string `json:"validityDate"`
	} `json:"versions"`
}

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	cfg := config.Defaults()
	domainCfg := cfg.DomainConfig()
	metrics := observability.NewCollector("test")
	table := memory.NewEngineTable()
	differ := versioning.NewDiffer(domainCfg)

	service := services.NewCatalogService(
		table,
		validators.NewCatalogValidator(logger),
		schema.NewSchemaEvolution(logger),
		messaging.NewLogPublisher(logger, metrics),
		ports.SystemClock{},
		domainCfg,
		metrics,
		logger,
	)
	timeline := queries.NewTimelineHandler(table, differ, cache.NewSummaryCache(time.Minute, metrics), domainCfg, metrics, logger)
	compare := queries.NewCompareVersionsHandler(table, differ, metrics, logger)

	return NewRouter(service, timeline, compare, pkgerrors.NewErrorHandler(logger, false), metrics, cfg, logger).Setup()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.True(t, env.Success, rec.Body.String())
	if target != nil {
		require.NoError(t, json.Unmarshal(env.Data, target))
	}
	return env
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	assert.True(t, resp.Error)
	return resp.Code
}

func createEngine(t *testing.T, h http.Handler, name string) engineBody {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/engines", `{
		"name": "`+name+`",
		"data": {
			"universe": {"description": "Retail"},
			"kpis": [{"name": "Gini", "calculation": "v1", "impact": "high"}]
		},
		"validityDate": "2025-01-01"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var engine engineBody
	decodeData(t, rec, &engine)
	return engine
}

func TestHealthAndReadiness(t *testing.T) {
	h := setupRouter(t)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	createEngine(t, h, "Credit Score")
	rec = do(t, h, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ready map[string]interface{}
	decodeData(t, rec, &ready)
	assert.Equal(t, "ready", ready["status"])
	assert.EqualValues(t, 1, ready["engines"])

	rec = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_catalog_engines")
}

func TestEngineLifecycle(t *testing.T) {
	h := setupRouter(t)
	engine := createEngine(t, h, "Credit Score")
	require.Len(t, engine.Versions, 1)
	assert.Equal(t, "2025-01-01", engine.Versions[0].ValidityDate)

	rec := do(t, h, http.MethodPost, "/api/v1/engines/"+engine.ID+"/versions", `{
		"mode": "track",
		"validityDate": "2025-02-01",
		"data": {
			"universe": {"description": "Retail"},
			"kpis": [{"name": "Gini", "calculation": "v2", "impact": "high"}]
		}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved engineBody
	decodeData(t, rec, &saved)
	require.Len(t, saved.Versions, 2)

	t.Run("ordering violation", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/engines/"+engine.ID+"/versions", `{
			"mode": "track", "validityDate": "2025-02-01", "data": {"universe": {"description": ""}}
		}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "VALIDITY_ORDER_VIOLATION", errorCode(t, rec))
	})

	t.Run("invalid mode", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/engines/"+engine.ID+"/versions", `{
			"mode": "append", "data": {"universe": {"description": ""}}
		}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_REQUEST", errorCode(t, rec))
	})

	t.Run("list", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/engines", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var list []map[string]interface{}
		env := decodeData(t, rec, &list)
		assert.Equal(t, 1, env.Meta.Count)
		assert.EqualValues(t, 2, list[0]["versionCount"])
	})

	t.Run("diff against predecessor", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/diff?current_engine="+engine.ID+"&current_version="+saved.Versions[1].VersionID, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var result queries.CompareVersionsResult
		decodeData(t, rec, &result)
		assert.Equal(t, queries.CompareModeDetailed, result.Mode)
		assert.Equal(t, 2, result.Current.VersionNumber)
		assert.Equal(t, 1, result.Previous.VersionNumber)
		assert.Contains(t, result.Summary, "Modified KPI: Gini")
		require.Len(t, result.Changes, 1)
	})

	t.Run("diff of initial version", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/diff?current_engine="+engine.ID+"&current_version="+saved.Versions[0].VersionID, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "NO_PREVIOUS_VERSION", errorCode(t, rec))
	})

	t.Run("timeline", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/timeline?engine_id="+engine.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var entries []queries.TimelineEntry
		env := decodeData(t, rec, &entries)
		assert.Equal(t, 2, env.Meta.Count)
		require.Len(t, entries, 2)
	})

	t.Run("rollback requires confirmation", func(t *testing.T) {
		rec := do(t, h, http.MethodDelete, "/api/v1/engines/"+engine.ID+"/versions/latest", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "CONFIRMATION_REQUIRED", errorCode(t, rec))

		rec = do(t, h, http.MethodDelete, "/api/v1/engines/"+engine.ID+"/versions/latest?confirm=true", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var result services.RollbackResult
		decodeData(t, rec, &result)
		assert.Equal(t, saved.Versions[1].VersionID, result.RemovedVersionID)
		assert.False(t, result.EngineRemoved)
	})

	t.Run("delete", func(t *testing.T) {
		rec := do(t, h, http.MethodDelete, "/api/v1/engines/"+engine.ID, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = do(t, h, http.MethodGet, "/api/v1/engines/"+engine.ID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ENGINE_NOT_FOUND", errorCode(t, rec))
	})
}

func TestCreateEngine_BlankNameReportsDomainError(t *testing.T) {
	h := setupRouter(t)

	for _, name := range []string{"", "   "} {
		rec := do(t, h, http.MethodPost, "/api/v1/engines", `{"name": "`+name+`", "data": {}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "name %q", name)
		assert.Equal(t, "ENGINE_NAME_REQUIRED", errorCode(t, rec), "name %q", name)
	}
}

func TestLinkEndpoints(t *testing.T) {
	h := setupRouter(t)
	a := createEngine(t, h, "Credit Score")
	b := createEngine(t, h, "Fraud")

	rec := do(t, h, http.MethodGet, "/api/v1/engines/"+a.ID+"/link-targets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var targets []map[string]interface{}
	decodeData(t, rec, &targets)
	require.Len(t, targets, 1)
	assert.Equal(t, b.ID, targets[0]["id"])

	rec = do(t, h, http.MethodGet, "/api/v1/engines/"+b.ID+"/name", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var name map[string]string
	decodeData(t, rec, &name)
	assert.Equal(t, "Fraud", name["name"])

	rec = do(t, h, http.MethodPost, "/api/v1/engines/"+a.ID+"/links", `{
		"section": "externalEngines",
		"entry": {"name": "Fraud model", "description": "manual"},
		"targetEngineId": "`+b.ID+`"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var entry map[string]interface{}
	decodeData(t, rec, &entry)
	assert.Equal(t, "See details in: Fraud", entry["description"])
	assert.Equal(t, b.ID, entry["linkedEngineId"])

	rec = do(t, h, http.MethodPost, "/api/v1/engines/"+a.ID+"/links", `{
		"section": "externalEngines",
		"entry": {"name": "Fraud model", "description": "x"},
		"targetEngineId": "`+a.ID+`"
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "SELF_LINK", errorCode(t, rec))
}

func TestCatalogExportImport(t *testing.T) {
	h := setupRouter(t)
	engine := createEngine(t, h, "Credit Score")

	rec := do(t, h, http.MethodGet, "/api/v1/catalog/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "engine-catalog.json")
	exported := rec.Body.String()

	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(exported), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, engine.ID, docs[0]["id"])

	t.Run("rejected import keeps catalog", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/catalog/import", `[{"id": "x", "name": "broken"}]`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_CATALOG", errorCode(t, rec))

		rec = do(t, h, http.MethodGet, "/api/v1/engines/"+engine.ID, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("import replaces catalog", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/catalog/import", "[]")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(t, h, http.MethodPost, "/api/v1/catalog/import", exported)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var result services.ImportResult
		decodeData(t, rec, &result)
		assert.Equal(t, 1, result.EngineCount)

		rec = do(t, h, http.MethodGet, "/api/v1/catalog/export", "")
		assert.JSONEq(t, exported, rec.Body.String())
	})
}

func TestUnknownRoute(t *testing.T) {
	h := setupRouter(t)
	rec := do(t, h, http.MethodGet, "/api/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
