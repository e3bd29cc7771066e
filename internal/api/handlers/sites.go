package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/notice-tracker/internal/engine"
	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// SiteStatusProvider reads the site registry together with stored snapshot
// state.
type SiteStatusProvider interface {
	SiteStatuses(ctx context.Context) ([]domain.SiteStatus, error)
	SiteStatusByKey(ctx context.Context, key string) (*domain.SiteStatus, error)
}

// SitesHandler handles site registry queries.
type SitesHandler struct {
	provider SiteStatusProvider
}

// NewSitesHandler creates a new SitesHandler.
func NewSitesHandler(p SiteStatusProvider) *SitesHandler {
	return &SitesHandler{provider: p}
}

// ListSitesOutput is the response body for listing monitored sites.
type ListSitesOutput struct {
	Body []domain.SiteStatus
}

// GetSiteInput is the request path for a single site.
type GetSiteInput struct {
	Key string `path:"key" doc:"Site key from the registry"`
}

// GetSiteOutput is the response body for a single site.
type GetSiteOutput struct {
	Body domain.SiteStatus
}

// ListSites returns every monitored site with its snapshot state and the
// result of its most recent check.
func (h *SitesHandler) ListSites(
	ctx context.Context,
	_ *struct{},
) (*ListSitesOutput, error) {
	sites, err := h.provider.SiteStatuses(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing sites failed: " + err.Error())
	}

	if sites == nil {
		sites = []domain.SiteStatus{}
	}

	return &ListSitesOutput{Body: sites}, nil
}

// GetSite returns a single monitored site by key.
func (h *SitesHandler) GetSite(
	ctx context.Context,
	input *GetSiteInput,
) (*GetSiteOutput, error) {
	site, err := h.provider.SiteStatusByKey(ctx, input.Key)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownSite) {
			return nil, huma.Error404NotFound("site not found: " + input.Key)
		}
		return nil, huma.Error500InternalServerError("fetching site failed: " + err.Error())
	}

	return &GetSiteOutput{Body: *site}, nil
}

// RegisterSiteRoutes registers site registry endpoints with the Huma API.
func RegisterSiteRoutes(api huma.API, h *SitesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-sites",
		Method:      http.MethodGet,
		Path:        "/api/v1/sites",
		Summary:     "List monitored sites",
		Description: "Returns every registered site with its snapshot state and most recent check result.",
		Tags:        []string{"sites"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListSites)

	huma.Register(api, huma.Operation{
		OperationID: "get-site",
		Method:      http.MethodGet,
		Path:        "/api/v1/sites/{key}",
		Summary:     "Get a monitored site",
		Description: "Returns one registered site by its key.",
		Tags:        []string{"sites"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.GetSite)
}
