package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ModelOption is one selectable writer/critic model.
type ModelOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Voice struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type VoiceStyle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ImageProvider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Cost      string `json:"cost"`
}

type VisualStyle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VoiceCatalog mirrors the available-voices endpoint payload.
type VoiceCatalog struct {
	Voices []Voice      `json:"voices"`
	Styles []VoiceStyle `json:"styles"`
}

// ImageCatalog mirrors the available-image-providers endpoint payload.
type ImageCatalog struct {
	Providers    []ImageProvider `json:"providers"`
	VisualStyles []VisualStyle   `json:"visual_styles"`
}

// Catalog is the full set of selectable options, fetched once at start.
type Catalog struct {
	Models map[string][]ModelOption
	Voices VoiceCatalog
	Images ImageCatalog
}

// Client fetches the three configuration endpoints.
type Client interface {
	FetchModels(ctx context.Context) (map[string][]ModelOption, error)
	FetchVoices(ctx context.Context) (VoiceCatalog, error)
	FetchImageProviders(ctx context.Context) (ImageCatalog, error)
}

// Fetch loads all three catalogs concurrently. A failure of any endpoint
// fails the whole fetch; callers treat that as non-fatal connectivity loss
// and continue with an empty catalog.
func Fetch(ctx context.Context, c Client) (Catalog, error) {
	var out Catalog
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		models, err := c.FetchModels(ctx)
		if err != nil {
			return fmt.Errorf("fetch models: %w", err)
		}
		out.Models = models
		return nil
	})
	g.Go(func() error {
		voices, err := c.FetchVoices(ctx)
		if err != nil {
			return fmt.Errorf("fetch voices: %w", err)
		}
		out.Voices = voices
		return nil
	})
	g.Go(func() error {
		images, err := c.FetchImageProviders(ctx)
		if err != nil {
			return fmt.Errorf("fetch image providers: %w", err)
		}
		out.Images = images
		return nil
	})
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return out, nil
}

// DefaultVoice picks the initial narration voice: the first listed one.
func (c Catalog) DefaultVoice() string {
	if len(c.Voices.Voices) == 0 {
		return ""
	}
	return c.Voices.Voices[0].ID
}
