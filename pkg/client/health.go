package client

import "context"

// Health reports whether the API answers its liveness probe
func (c *Client) Health(ctx context.Context) (bool, error) {
	var resp struct {
		OK bool `json:"ok"`
	}
	if err := c.get(ctx, "/health", &resp); err != nil {
		return false, err
	}
	return resp.OK, nil
}

// Ready reports whether the API answers its readiness probe
func (c *Client) Ready(ctx context.Context) (bool, error) {
	var resp struct {
		OK bool `json:"ok"`
	}
	if err := c.get(ctx, "/readyz", &resp); err != nil {
		return false, err
	}
	return resp.OK, nil
}
