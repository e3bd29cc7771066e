package client

import "context"

type statusBody struct {
	Status string `json:"status"`
}

// Healthz reports the server's liveness status string.
func (c *Client) Healthz(ctx context.Context) (string, error) {
	var body statusBody
	if err := c.get(ctx, "/healthz", &body); err != nil {
		return "", err
	}
	return body.Status, nil
}

// Readyz reports the server's readiness status string. An unreachable store
// surfaces as an API error carrying HTTP 503.
func (c *Client) Readyz(ctx context.Context) (string, error) {
	var body statusBody
	if err := c.get(ctx, "/readyz", &body); err != nil {
		return "", err
	}
	return body.Status, nil
}
