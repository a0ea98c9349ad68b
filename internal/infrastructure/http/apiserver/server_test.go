package apiserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fridgeraider/fridgeraider/internal/application/assistant"
	pantrysvc "github.com/fridgeraider/fridgeraider/internal/application/pantry"
	preferencesvc "github.com/fridgeraider/fridgeraider/internal/application/preference"
	"github.com/fridgeraider/fridgeraider/internal/application/workspace"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/http/apiserver"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/http/handlers"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/monitoring"
	"github.com/fridgeraider/fridgeraider/internal/infrastructure/persistence/memory"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
	"github.com/fridgeraider/fridgeraider/pkg/healthcheck"
	"github.com/fridgeraider/fridgeraider/test/testutils"
)

type unreachableModel struct {
	*testutils.ScriptedModel
}

func (unreachableModel) HealthCheck(ctx context.Context) error {
	return errors.New("connection refused")
}

func newServer(t *testing.T, model outbound.LanguageModel) (*apiserver.APIServer, *monitoring.MetricsCollector) {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	store := memory.NewDocumentStore()
	ai := assistant.NewService(model, logger)
	pantry := pantrysvc.NewService(ai, store, nil, 0, logger)
	prefs := preferencesvc.NewService(ai, store, nil, logger)
	require.NoError(t, pantry.Load(ctx))
	require.NoError(t, prefs.Load(ctx))
	ws := workspace.New(pantry, prefs, ai, cfg.Prefetch.DefaultPlanDays, logger)
	ws.Init()

	metrics := monitoring.NewMetricsCollector(logger)
	tracing, err := monitoring.NewTracingProvider(monitoring.TracingConfig{ServiceName: "test"}, logger)
	require.NoError(t, err)
	h := handlers.NewAPIHandlers(ws, pantry, prefs, cfg, logger)

	health := healthcheck.New(cfg.App.Version, logger)
	health.Register("language_model", healthcheck.NewLanguageModelChecker(model))
	health.Register("storage", healthcheck.NewDocumentStoreChecker(store))

	return apiserver.NewAPIServer(cfg, logger, h, health, metrics, tracing), metrics
}

func serve(srv *apiserver.APIServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t, testutils.NewScriptedModel())

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Content-Type-Options"))
}

func TestReadiness(t *testing.T) {
	t.Run("ModelReachable", func(t *testing.T) {
		srv, _ := newServer(t, testutils.NewScriptedModel())
		rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	})

	t.Run("ModelUnreachable_IsDegraded", func(t *testing.T) {
		srv, _ := newServer(t, unreachableModel{testutils.NewScriptedModel()})
		rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
		assert.Contains(t, rec.Body.String(), "connection refused")
	})
}

func TestAPIRoutes(t *testing.T) {
	srv, metrics := newServer(t, testutils.NewScriptedModel())

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/workspace", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	count, err := testutil.GatherAndCount(metrics.Registry(), "fridgeraider_http_requests_total")
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestJSONOnly(t *testing.T) {
	srv, _ := newServer(t, testutils.NewScriptedModel())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader("hello"))
	req.Header.Set("Content-Type", "text/plain")

	rec := serve(srv, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newServer(t, testutils.NewScriptedModel())
	serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil))

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fridgeraider_http_requests_total")
}

func TestOpenAPI(t *testing.T) {
	srv, _ := newServer(t, testutils.NewScriptedModel())

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		OpenAPI string                 `json:"openapi"`
		Paths   map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Contains(t, doc.Paths, "/inventory/{id}")

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.yaml", nil))
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
}
