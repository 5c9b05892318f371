package client

import (
	"context"
	"net/url"
)

// UsageInfo is a user's plan and month-to-date consumption
type UsageInfo struct {
	Email string `json:"email"`
	Plan  string `json:"plan"`
	Limit int    `json:"limit"`
	Used  int    `json:"used"`
}

// Usage fetches the plan and month-to-date use for an email
func (c *Client) Usage(ctx context.Context, email string) (*UsageInfo, error) {
	var resp struct {
		Data UsageInfo `json:"data"`
	}
	if err := c.get(ctx, "/usage?email="+url.QueryEscape(email), &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
