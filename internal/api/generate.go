package api

import (
	"context"
	"fmt"

	"viralflow/internal/history"
	"viralflow/internal/scenes"
)

const (
	SubtitleStatic  = "static"
	SubtitleKaraoke = "karaoke"
)

// DirectGenerate asks the backend to plan and realize a whole project from a
// single raw prompt. The backend reports failures inside a 200 response.
func (c *Client) DirectGenerate(ctx context.Context, rawPrompt string) (history.ProjectDetail, error) {
	var resp struct {
		history.ProjectDetail
		Error string `json:"error"`
	}
	body := map[string]string{"raw_prompt": rawPrompt}
	if err := c.postJSON(ctx, "/direct-video", body, &resp); err != nil {
		return history.ProjectDetail{}, err
	}
	if resp.Error != "" {
		return history.ProjectDetail{}, fmt.Errorf("direct generation failed: %s", resp.Error)
	}
	return resp.ProjectDetail, nil
}

type RenderRequest struct {
	ProjectID     string         `json:"project_id"`
	Assets        []scenes.Scene `json:"assets"`
	SubtitleStyle string         `json:"subtitle_style"`
}

// RenderVideo renders the project's assets into the final video and returns
// its URL.
func (c *Client) RenderVideo(ctx context.Context, req RenderRequest) (string, error) {
	if req.SubtitleStyle == "" {
		req.SubtitleStyle = SubtitleStatic
	}
	var resp struct {
		VideoURL string `json:"video_url"`
		Error    string `json:"error"`
	}
	if err := c.postJSON(ctx, "/render-video", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("render failed: %s", resp.Error)
	}
	if resp.VideoURL == "" {
		return "", fmt.Errorf("render returned no video url")
	}
	return resp.VideoURL, nil
}

func (c *Client) RegenerateScene(ctx context.Context, req scenes.RegenerateRequest) (scenes.RegenerateResult, error) {
	var out scenes.RegenerateResult
	if err := c.postJSON(ctx, "/regenerate-scene", req, &out); err != nil {
		return scenes.RegenerateResult{}, err
	}
	return out, nil
}

var _ scenes.Regenerator = (*Client)(nil)
