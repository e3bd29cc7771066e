package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/notice-tracker/internal/api"
	"github.com/donaldgifford/notice-tracker/internal/config"
	"github.com/donaldgifford/notice-tracker/internal/engine"
	"github.com/donaldgifford/notice-tracker/internal/fetch"
	"github.com/donaldgifford/notice-tracker/internal/notify"
	"github.com/donaldgifford/notice-tracker/internal/store"
	"github.com/donaldgifford/notice-tracker/pkg/logger"
	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

func newTestServer(t *testing.T, sites []domain.Site) *api.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ForceToken = "test-token"

	eng := engine.NewEngine(
		store.NewMemoryStore(),
		fetch.New(),
		notify.NewNoOpNotifier(logger.Nop()),
		sites,
		engine.WithLogger(logger.Nop()),
	)

	return api.New(cfg, eng, store.NewMemoryStore(), "test", logger.Nop())
}

func serve(srv *api.Server, method, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServer_LegacyEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := serve(srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = serve(srv, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", rec.Body.String())
}

func TestServer_Probes(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := serve(srv, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(srv, http.MethodGet, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := serve(srv, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ntt_")
}

func TestServer_ForceCheckTokenRequired(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := serve(srv, http.MethodGet, "/force-check")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized", rec.Body.String())

	rec = serve(srv, http.MethodGet, "/force-check?token=wrong")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(srv, http.MethodGet, "/force-check?token=test-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Triggered", rec.Body.String())
}

func TestServer_OpenAPIServed(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := serve(srv, http.MethodGet, "/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "notice-tracker API")
	assert.Contains(t, rec.Body.String(), "/api/v1/check")
}

func TestServer_SitesEndpoint(t *testing.T) {
	sites := []domain.Site{{
		Key:      "neet",
		URL:      "https://neet.example.org/notices",
		BaseURL:  "https://neet.example.org/",
		Keywords: []string{"result"},
	}}
	srv := newTestServer(t, sites)

	rec := serve(srv, http.MethodGet, "/api/v1/sites")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"key":"neet"`)
	assert.Contains(t, rec.Body.String(), `"initialized":false`)
}

func TestServer_PassesEndpointEmpty(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := serve(srv, http.MethodGet, "/api/v1/passes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "[]")
}

func TestServer_RunCheckEmptyRegistry(t *testing.T) {
	srv := newTestServer(t, nil)

	// The JSON API shares the force token with the legacy trigger.
	rec := serve(srv, http.MethodPost, "/api/v1/check")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(srv, http.MethodPost, "/api/v1/check", "X-Force-Token", "test-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"trigger":"manual"`)
}

func TestServer_Addr(t *testing.T) {
	srv := newTestServer(t, nil)
	assert.Equal(t, "127.0.0.1:0", srv.Addr())
}
