package session

import (
	"fmt"
	"strings"
)

const (
	ScriptModeAI     = "ai"
	ScriptModeManual = "manual"
)

const (
	DurationShort    = "short"
	DurationMedium   = "medium"
	DurationLong     = "long"
	DurationSurprise = "surprise"
)

const (
	AspectVertical   = "vertical"
	AspectHorizontal = "horizontal"
)

// Config is the full set of generation parameters captured at ignite time.
// A session keeps an immutable copy; later edits to the caller's form state
// never affect a run that is already streaming.
type Config struct {
	ScriptMode        string `json:"script_mode"`
	Topic             string `json:"topic"`
	ManualScript      string `json:"manual_script,omitempty"`
	WriterProvider    string `json:"writer_provider"`
	WriterModel       string `json:"writer_model"`
	CriticProvider    string `json:"critic_provider"`
	CriticModel       string `json:"critic_model"`
	Duration          string `json:"duration"`
	VoiceConfig       string `json:"voice_config"`
	VoiceStyle        string `json:"voice_style"`
	AspectRatio       string `json:"aspect_ratio"`
	ImageProvider     string `json:"image_provider"`
	UseConsistentSeed bool   `json:"use_consistent_seed"`
	VisualStyle       string `json:"visual_style"`
}

// DefaultConfig is the starting configuration for a fresh session.
func DefaultConfig() Config {
	return Config{
		ScriptMode:        ScriptModeAI,
		Duration:          DurationMedium,
		WriterProvider:    "gemini",
		CriticProvider:    "gemini",
		VoiceStyle:        "documentary",
		AspectRatio:       AspectHorizontal,
		ImageProvider:     "pollinations",
		UseConsistentSeed: true,
		VisualStyle:       "documentary",
	}
}

// Normalized trims free-text fields and folds enum fields back to their
// defaults when unrecognized.
func (c Config) Normalized() Config {
	norm := c
	norm.Topic = strings.TrimSpace(norm.Topic)
	norm.ManualScript = strings.TrimSpace(norm.ManualScript)
	norm.ScriptMode = normalizeScriptMode(norm.ScriptMode)
	norm.Duration = normalizeDuration(norm.Duration)
	norm.AspectRatio = normalizeAspectRatio(norm.AspectRatio)
	return norm
}

// Validate reports why a config cannot ignite a run. AI mode needs a topic,
// manual mode needs a script.
func (c Config) Validate() error {
	norm := c.Normalized()
	switch norm.ScriptMode {
	case ScriptModeAI:
		if norm.Topic == "" {
			return fmt.Errorf("%w: topic is required in ai script mode", ErrMissingInput)
		}
	case ScriptModeManual:
		if norm.ManualScript == "" {
			return fmt.Errorf("%w: manual script is required in manual script mode", ErrMissingInput)
		}
	}
	return nil
}

func normalizeScriptMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ScriptModeManual:
		return ScriptModeManual
	default:
		return ScriptModeAI
	}
}

func normalizeDuration(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DurationShort, DurationLong, DurationSurprise:
		return strings.ToLower(strings.TrimSpace(raw))
	default:
		return DurationMedium
	}
}

func normalizeAspectRatio(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case AspectVertical:
		return AspectVertical
	default:
		return AspectHorizontal
	}
}
