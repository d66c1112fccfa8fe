package api

import (
	"context"

	"viralflow/internal/catalog"
)

func (c *Client) FetchModels(ctx context.Context) (map[string][]catalog.ModelOption, error) {
	var out map[string][]catalog.ModelOption
	if err := c.getJSON(ctx, "/available-models", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchVoices(ctx context.Context) (catalog.VoiceCatalog, error) {
	var out catalog.VoiceCatalog
	if err := c.getJSON(ctx, "/available-voices", &out); err != nil {
		return catalog.VoiceCatalog{}, err
	}
	return out, nil
}

func (c *Client) FetchImageProviders(ctx context.Context) (catalog.ImageCatalog, error) {
	var out catalog.ImageCatalog
	if err := c.getJSON(ctx, "/available-image-providers", &out); err != nil {
		return catalog.ImageCatalog{}, err
	}
	return out, nil
}

var _ catalog.Client = (*Client)(nil)
