package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"viralflow/internal/transcript"
)

const (
	DefaultSettingsPath   = "config/settings.json"
	settingsSchemaVersion = 1
)

const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultTimeoutSeconds = 60
	DefaultTranscriptsDir = "transcripts"
	DefaultSubtitleStyle  = "static"
)

const envPrefix = "VIRALFLOW_"

// Settings is the client's persisted runtime configuration. Environment
// variables (optionally via a .env file) override the stored values; the
// file itself is only rewritten by explicit updates.
type Settings struct {
	BaseURL        string `json:"base_url,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	TranscriptsDir string `json:"transcripts_dir,omitempty"`
	SubtitleStyle  string `json:"subtitle_style,omitempty"`
}

type settingsFile struct {
	SchemaVersion int      `json:"schema_version"`
	UpdatedAt     string   `json:"updated_at"`
	Settings      Settings `json:"settings"`
}

func defaultSettings() Settings {
	return Settings{
		BaseURL:        DefaultBaseURL,
		TimeoutSeconds: DefaultTimeoutSeconds,
		TranscriptsDir: DefaultTranscriptsDir,
		SubtitleStyle:  DefaultSubtitleStyle,
	}
}

func normalizeSettings(raw Settings) Settings {
	norm := raw
	norm.BaseURL = strings.TrimRight(strings.TrimSpace(norm.BaseURL), "/")
	if norm.BaseURL == "" {
		norm.BaseURL = DefaultBaseURL
	}
	if norm.TimeoutSeconds <= 0 {
		norm.TimeoutSeconds = DefaultTimeoutSeconds
	}
	norm.TranscriptsDir = strings.TrimSpace(norm.TranscriptsDir)
	if norm.TranscriptsDir == "" {
		norm.TranscriptsDir = DefaultTranscriptsDir
	}
	norm.SubtitleStyle = normalizeSubtitleStyle(norm.SubtitleStyle)
	return norm
}

func normalizeSubtitleStyle(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "karaoke":
		return "karaoke"
	default:
		return DefaultSubtitleStyle
	}
}

func normalizeSettingsPath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return DefaultSettingsPath
	}
	return p
}

// Load reads settings from disk, falling back to defaults when the file does
// not exist, and applies environment overrides. A .env file in the working
// directory is honored when present.
func Load(path string) (Settings, error) {
	_ = godotenv.Load()

	settings, err := Read(normalizeSettingsPath(path))
	if err != nil {
		return Settings{}, err
	}
	return applyEnvOverrides(settings), nil
}

// Read reads the stored settings without environment overrides.
func Read(path string) (Settings, error) {
	target := normalizeSettingsPath(path)
	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("read settings %s: %w", target, err)
	}
	var file settingsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", target, err)
	}
	return normalizeSettings(file.Settings), nil
}

// Update normalizes and persists new settings.
func Update(path string, settings Settings) (Settings, error) {
	target := normalizeSettingsPath(path)
	norm := normalizeSettings(settings)
	file := settingsFile{
		SchemaVersion: settingsSchemaVersion,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
		Settings:      norm,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return Settings{}, fmt.Errorf("encode settings: %w", err)
	}
	if err := transcript.WriteFileAtomic(target, append(data, '\n')); err != nil {
		return Settings{}, err
	}
	return norm, nil
}

func applyEnvOverrides(settings Settings) Settings {
	if v := strings.TrimSpace(os.Getenv(envPrefix + "BASE_URL")); v != "" {
		settings.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv(envPrefix + "TRANSCRIPTS_DIR")); v != "" {
		settings.TranscriptsDir = v
	}
	if v := strings.TrimSpace(os.Getenv(envPrefix + "SUBTITLE_STYLE")); v != "" {
		settings.SubtitleStyle = normalizeSubtitleStyle(v)
	}
	return settings
}

// Timeout is the request timeout for plain request/response calls.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}
