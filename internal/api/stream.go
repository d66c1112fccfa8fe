package api

import (
	"context"
	"net/url"
	"strconv"

	"viralflow/internal/session"
	"viralflow/internal/stream"
)

// StreamURL builds the stream-open URL for one captured config.
func (c *Client) StreamURL(cfg session.Config) string {
	topic := cfg.Topic
	manualScript := ""
	if cfg.ScriptMode == session.ScriptModeManual {
		// The backend keys planning off the script itself; the topic slot
		// carries a fixed placeholder.
		topic = "Custom Script"
		manualScript = cfg.ManualScript
	}

	params := url.Values{}
	params.Set("topic", topic)
	params.Set("writer_provider", cfg.WriterProvider)
	params.Set("writer_model", cfg.WriterModel)
	params.Set("critic_provider", cfg.CriticProvider)
	params.Set("critic_model", cfg.CriticModel)
	params.Set("duration", cfg.Duration)
	params.Set("voice_config", cfg.VoiceConfig)
	params.Set("voice_style", cfg.VoiceStyle)
	params.Set("aspect_ratio", cfg.AspectRatio)
	params.Set("image_provider", cfg.ImageProvider)
	params.Set("use_consistent_seed", strconv.FormatBool(cfg.UseConsistentSeed))
	params.Set("visual_style", cfg.VisualStyle)
	params.Set("script_mode", cfg.ScriptMode)
	params.Set("manual_script", manualScript)

	return c.baseURL + "/create-stream?" + params.Encode()
}

// OpenStream opens the progress stream for cfg and dispatches its events to
// handle. The connection has no client-side timeout: a run that never emits
// a terminal frame stays open until the session aborts it.
func (c *Client) OpenStream(cfg session.Config, handle func(stream.Event)) (session.Stream, error) {
	return stream.Open(context.Background(), c.streamHTTP, c.StreamURL(cfg), handle)
}

var _ session.Opener = (*Client)(nil)
