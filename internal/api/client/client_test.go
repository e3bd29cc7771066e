package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListSites(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"a check pass is already running"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.RunCheck(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 409)")
	assert.Contains(t, err.Error(), "already running")
}

func TestClient_ListSites(t *testing.T) {
	t.Parallel()

	sites := []domain.SiteStatus{
		{
			Site:         domain.Site{Key: "neet", URL: "https://neet.example.org/notices"},
			Initialized:  true,
			SnapshotSize: 12,
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sites", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sites)
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.ListSites(context.Background())
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "neet", result[0].Key)
	assert.Equal(t, 12, result[0].SnapshotSize)
}

func TestClient_GetSite(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sites/aiims", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.SiteStatus{
			Site: domain.Site{Key: "aiims"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	site, err := c.GetSite(context.Background(), "aiims")
	require.NoError(t, err)
	assert.Equal(t, "aiims", site.Key)
}

func TestClient_RunCheck(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/check", r.URL.Path)
		assert.Equal(t, "sekrit", r.Header.Get("X-Force-Token"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.PassSummary{
			ID:      "pass-1",
			Trigger: domain.TriggerManual,
			Sites: []domain.SiteResult{
				{SiteKey: "neet", Status: domain.CheckOK, ItemsNew: 3},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithForceToken("sekrit"))
	pass, err := c.RunCheck(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "pass-1", pass.ID)
	assert.Equal(t, 3, pass.NewTotal())
}

func TestClient_RunCheckSingleSite(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/check", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body runCheckRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "neet", body.Site)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.PassSummary{
			Sites: []domain.SiteResult{
				{SiteKey: "neet", Status: domain.CheckSeeded},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	pass, err := c.RunCheck(context.Background(), "neet")
	require.NoError(t, err)
	require.Len(t, pass.Sites, 1)
	assert.Equal(t, domain.CheckSeeded, pass.Sites[0].Status)
}

func TestClient_ListPasses(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/passes", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]domain.PassSummary{{ID: "pass-9"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	passes, err := c.ListPasses(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, "pass-9", passes[0].ID)
}

func TestClient_Healthz(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	status, err := c.Healthz(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status)
}

func TestClient_ReadyzUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Readyz(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 503)")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := New("http://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)
}
