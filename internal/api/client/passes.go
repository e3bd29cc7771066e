package client

import (
	"context"
	"strconv"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// ListPasses returns recent check passes, newest first. A non-positive limit
// uses the server default.
func (c *Client) ListPasses(ctx context.Context, limit int) ([]domain.PassSummary, error) {
	path := "/api/v1/passes"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var passes []domain.PassSummary
	if err := c.get(ctx, path, &passes); err != nil {
		return nil, err
	}
	return passes, nil
}
