package client

import (
	"context"
	"net/url"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// ListSites returns every monitored site with its snapshot state.
func (c *Client) ListSites(ctx context.Context) ([]domain.SiteStatus, error) {
	var sites []domain.SiteStatus
	if err := c.get(ctx, "/api/v1/sites", &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

// GetSite returns one monitored site by key.
func (c *Client) GetSite(ctx context.Context, key string) (*domain.SiteStatus, error) {
	var site domain.SiteStatus
	if err := c.get(ctx, "/api/v1/sites/"+url.PathEscape(key), &site); err != nil {
		return nil, err
	}
	return &site, nil
}
