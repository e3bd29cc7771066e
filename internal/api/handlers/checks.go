package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/donaldgifford/notice-tracker/internal/engine"
	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// CheckService runs checks synchronously: a full pass over the registry or a
// single site by key.
type CheckService interface {
	RunPass(ctx context.Context, trigger domain.CheckTrigger) (*domain.PassSummary, error)
	CheckSiteByKey(ctx context.Context, key string) (domain.SiteResult, error)
}

// ChecksHandler handles synchronous check requests. It shares the force
// token with the legacy trigger endpoint; an empty token leaves the
// endpoint open.
type ChecksHandler struct {
	service CheckService
	token   string
}

// NewChecksHandler creates a new ChecksHandler.
func NewChecksHandler(s CheckService, token string) *ChecksHandler {
	return &ChecksHandler{service: s, token: token}
}

// RunCheckInput is the request for a synchronous check. The body is optional;
// without it the whole registry is checked.
type RunCheckInput struct {
	Token string `header:"X-Force-Token" doc:"Must match the configured force token, if one is set"`
	Body  struct {
		Site string `json:"site,omitempty" doc:"Check only this site key"`
	} `required:"false"`
}

// RunCheckOutput is the response body for a completed check.
type RunCheckOutput struct {
	Body domain.PassSummary
}

// RunCheck runs the pipeline for every registered site, or for the single
// site named in the body, and waits for completion. Per-site failures land
// in the summary, not in the HTTP status.
func (h *ChecksHandler) RunCheck(
	ctx context.Context,
	input *RunCheckInput,
) (*RunCheckOutput, error) {
	if !tokenAllowed(h.token, input.Token) {
		return nil, huma.Error403Forbidden("invalid or missing force token")
	}

	if site := input.Body.Site; site != "" {
		return h.runSiteCheck(ctx, site)
	}

	pass, err := h.service.RunPass(ctx, domain.TriggerManual)
	if err != nil {
		if errors.Is(err, engine.ErrPassInProgress) {
			return nil, huma.Error409Conflict("a check pass is already running")
		}
		return nil, huma.Error500InternalServerError("check pass failed: " + err.Error())
	}

	return &RunCheckOutput{Body: *pass}, nil
}

// runSiteCheck wraps a single-site check in a pass summary so both request
// shapes share one response type.
func (h *ChecksHandler) runSiteCheck(ctx context.Context, site string) (*RunCheckOutput, error) {
	start := time.Now()

	result, err := h.service.CheckSiteByKey(ctx, site)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownSite) {
			return nil, huma.Error404NotFound("site not found: " + site)
		}
		return nil, huma.Error500InternalServerError("site check failed: " + err.Error())
	}

	return &RunCheckOutput{Body: domain.PassSummary{
		ID:          uuid.NewString(),
		Trigger:     domain.TriggerManual,
		StartedAt:   start,
		CompletedAt: time.Now(),
		Sites:       []domain.SiteResult{result},
	}}, nil
}

// RegisterCheckRoutes registers check endpoints with the Huma API.
func RegisterCheckRoutes(api huma.API, h *ChecksHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "run-check",
		Method:      http.MethodPost,
		Path:        "/api/v1/check",
		Summary:     "Run a check pass",
		Description: "Runs the full pipeline: fetch each page, extract matching notices, " +
			"dispatch what is new, and persist the snapshot. Checks the whole registry, " +
			"or one site when the body names a site key. Waits for completion and " +
			"returns the pass summary.",
		Tags: []string{"checks"},
		Errors: []int{
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, h.RunCheck)
}
