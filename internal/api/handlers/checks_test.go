package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/notice-tracker/internal/api/handlers"
	"github.com/donaldgifford/notice-tracker/internal/engine"
	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// mockCheckService is a test double for CheckService.
type mockCheckService struct {
	pass    *domain.PassSummary
	passErr error

	result    domain.SiteResult
	resultErr error
	gotKey    string
}

func (m *mockCheckService) RunPass(_ context.Context, trigger domain.CheckTrigger) (*domain.PassSummary, error) {
	if m.passErr != nil {
		return nil, m.passErr
	}
	p := *m.pass
	p.Trigger = trigger
	return &p, nil
}

func (m *mockCheckService) CheckSiteByKey(_ context.Context, key string) (domain.SiteResult, error) {
	m.gotKey = key
	return m.result, m.resultErr
}

func newCheckAPI(t *testing.T, svc *mockCheckService, token string) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	handlers.RegisterCheckRoutes(api, handlers.NewChecksHandler(svc, token))
	return api
}

func TestRunCheck_Success(t *testing.T) {
	t.Parallel()

	svc := &mockCheckService{
		pass: &domain.PassSummary{
			ID: "pass-1",
			Sites: []domain.SiteResult{
				{SiteKey: "neet", Status: domain.CheckOK, ItemsNew: 2},
			},
		},
	}
	api := newCheckAPI(t, svc, "")

	resp := api.Post("/api/v1/check")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "pass-1")
	assert.Contains(t, resp.Body.String(), `"trigger":"manual"`)
	assert.Contains(t, resp.Body.String(), `"items_new":2`)
}

func TestRunCheck_TokenRequired(t *testing.T) {
	t.Parallel()

	svc := &mockCheckService{pass: &domain.PassSummary{ID: "pass-1"}}
	api := newCheckAPI(t, svc, "sekrit")

	resp := api.Post("/api/v1/check")
	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "force token")

	resp = api.Post("/api/v1/check", "X-Force-Token: wrong")
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = api.Post("/api/v1/check", "X-Force-Token: sekrit")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "pass-1")
}

func TestRunCheck_AlreadyRunning(t *testing.T) {
	t.Parallel()

	svc := &mockCheckService{passErr: engine.ErrPassInProgress}
	api := newCheckAPI(t, svc, "")

	resp := api.Post("/api/v1/check")
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "already running")
}

func TestRunCheck_Error(t *testing.T) {
	t.Parallel()

	svc := &mockCheckService{passErr: errors.New("context canceled")}
	api := newCheckAPI(t, svc, "")

	resp := api.Post("/api/v1/check")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "check pass failed")
}

func TestRunCheck_SingleSite(t *testing.T) {
	t.Parallel()

	svc := &mockCheckService{
		result: domain.SiteResult{
			SiteKey:      "aiims",
			Status:       domain.CheckOK,
			ItemsFound:   7,
			SnapshotSize: 7,
		},
	}
	api := newCheckAPI(t, svc, "")

	resp := api.Post("/api/v1/check", map[string]any{"site": "aiims"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "aiims", svc.gotKey)
	assert.Contains(t, resp.Body.String(), `"items_found":7`)
	assert.Contains(t, resp.Body.String(), `"trigger":"manual"`)
}

// A failed fetch is a check outcome, not an HTTP error.
func TestRunCheck_SingleSiteFailedCheckStillReturns200(t *testing.T) {
	t.Parallel()

	svc := &mockCheckService{
		result: domain.SiteResult{
			SiteKey: "neet",
			Status:  domain.CheckFailed,
			Error:   "fetching page: connection refused",
		},
	}
	api := newCheckAPI(t, svc, "")

	resp := api.Post("/api/v1/check", map[string]any{"site": "neet"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"failed"`)
}

func TestRunCheck_UnknownSite(t *testing.T) {
	t.Parallel()

	svc := &mockCheckService{resultErr: engine.ErrUnknownSite}
	api := newCheckAPI(t, svc, "")

	resp := api.Post("/api/v1/check", map[string]any{"site": "nope"})
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "site not found")
}
