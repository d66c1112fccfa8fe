package api

import (
	"context"
	"net/url"

	"viralflow/internal/history"
)

func (c *Client) ListProjects(ctx context.Context) ([]history.ProjectSummary, error) {
	var out []history.ProjectSummary
	if err := c.getJSON(ctx, "/api/projects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (history.ProjectDetail, error) {
	var out history.ProjectDetail
	if err := c.getJSON(ctx, "/api/projects/"+url.PathEscape(id), &out); err != nil {
		return history.ProjectDetail{}, err
	}
	return out, nil
}

var _ history.Client = (*Client)(nil)
