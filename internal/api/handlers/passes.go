package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// PassHistoryProvider reads recorded check passes, newest first.
type PassHistoryProvider interface {
	RecentPasses(limit int) []domain.PassSummary
}

// PassesHandler handles check pass history requests.
type PassesHandler struct {
	provider PassHistoryProvider
}

// NewPassesHandler creates a new PassesHandler.
func NewPassesHandler(p PassHistoryProvider) *PassesHandler {
	return &PassesHandler{provider: p}
}

// ListPassesInput is the request query for pass history.
type ListPassesInput struct {
	Limit int `query:"limit" doc:"Number of passes (default 20)" minimum:"1" maximum:"50"`
}

// ListPassesOutput is the response body for pass history.
type ListPassesOutput struct {
	Body []domain.PassSummary
}

const defaultPassHistoryLimit = 20

// ListPasses returns recent check passes, newest first. History is held in
// memory and bounded, so a restart clears it.
func (h *PassesHandler) ListPasses(
	ctx context.Context,
	input *ListPassesInput,
) (*ListPassesOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = defaultPassHistoryLimit
	}

	passes := h.provider.RecentPasses(limit)
	if passes == nil {
		passes = []domain.PassSummary{}
	}

	return &ListPassesOutput{Body: passes}, nil
}

// RegisterPassRoutes registers pass history endpoints with the Huma API.
func RegisterPassRoutes(api huma.API, h *PassesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-passes",
		Method:      http.MethodGet,
		Path:        "/api/v1/passes",
		Summary:     "List recent check passes",
		Description: "Returns summaries of recent check passes, newest first.",
		Tags:        []string{"checks"},
	}, h.ListPasses)
}
