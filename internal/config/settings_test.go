package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRead_MissingFileReturnsDefaults(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if got != defaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestUpdateThenRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "settings.json")

	saved, err := Update(path, Settings{
		BaseURL:        "http://pipeline.local:9000/",
		TimeoutSeconds: 120,
		TranscriptsDir: "out/transcripts",
		SubtitleStyle:  "karaoke",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if saved.BaseURL != "http://pipeline.local:9000" {
		t.Fatalf("trailing slash kept: %q", saved.BaseURL)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != saved {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, saved)
	}
	if got.SubtitleStyle != "karaoke" || got.TimeoutSeconds != 120 {
		t.Fatalf("fields lost: %+v", got)
	}
}

func TestNormalize_FoldsInvalidValues(t *testing.T) {
	got := normalizeSettings(Settings{
		BaseURL:        "   ",
		TimeoutSeconds: -5,
		SubtitleStyle:  "wavy",
	})
	if got != defaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestRead_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("VIRALFLOW_BASE_URL", "http://override:8000/")
	t.Setenv("VIRALFLOW_TRANSCRIPTS_DIR", "elsewhere")
	t.Setenv("VIRALFLOW_SUBTITLE_STYLE", "KARAOKE")

	got, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.BaseURL != "http://override:8000" {
		t.Fatalf("base url override lost: %q", got.BaseURL)
	}
	if got.TranscriptsDir != "elsewhere" {
		t.Fatalf("transcripts dir override lost: %q", got.TranscriptsDir)
	}
	if got.SubtitleStyle != "karaoke" {
		t.Fatalf("subtitle style override lost: %q", got.SubtitleStyle)
	}
	if got.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Fatalf("unrelated field changed: %+v", got)
	}
}

func TestLoad_NoOverridesKeepsStoredValues(t *testing.T) {
	t.Setenv("VIRALFLOW_BASE_URL", "")
	t.Setenv("VIRALFLOW_TRANSCRIPTS_DIR", "")
	t.Setenv("VIRALFLOW_SUBTITLE_STYLE", "")

	path := filepath.Join(t.TempDir(), "settings.json")
	if _, err := Update(path, Settings{BaseURL: "http://stored:8000"}); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.BaseURL != "http://stored:8000" {
		t.Fatalf("stored value lost: %q", got.BaseURL)
	}
}
