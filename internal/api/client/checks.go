package client

import (
	"context"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

type runCheckRequest struct {
	Site string `json:"site,omitempty"`
}

// RunCheck runs a check and returns its summary. An empty site checks the
// whole registry; a site key checks just that site. The server holds the
// request open until the check completes.
func (c *Client) RunCheck(ctx context.Context, site string) (*domain.PassSummary, error) {
	var body any
	if site != "" {
		body = runCheckRequest{Site: site}
	}

	var pass domain.PassSummary
	if err := c.post(ctx, "/api/v1/check", body, &pass); err != nil {
		return nil, err
	}
	return &pass, nil
}
