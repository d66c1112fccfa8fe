package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"viralflow/internal/seo"
	"viralflow/internal/session"
)

// Transcript is a persisted snapshot of one finished pipeline run: the
// captured config, the full progress log, and whatever the run produced.
type Transcript struct {
	SessionID string             `json:"session_id"`
	CreatedAt string             `json:"created_at"`
	Status    string             `json:"status"`
	Config    session.Config     `json:"config"`
	Log       []session.LogEntry `json:"log"`
	Metadata  *seo.Canonical     `json:"metadata,omitempty"`
	VideoURL  string             `json:"video_url,omitempty"`
}

func Mkdir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// WriteFileAtomic writes data via a temp file in the target's directory and
// renames it into place, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".viralflow-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("atomic rename for %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o644); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}
	return nil
}

func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON for %s: %w", path, err)
	}
	data = append(data, '\n')
	return WriteFileAtomic(path, data)
}

func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse JSON %s: %w", path, err)
	}
	return nil
}

// FromView captures a session view into a transcript, stamping the creation
// time in UTC.
func FromView(view session.View, now time.Time) Transcript {
	return Transcript{
		SessionID: view.ID,
		CreatedAt: now.UTC().Format(time.RFC3339),
		Status:    view.Status,
		Config:    view.Config,
		Log:       view.Logs,
		Metadata:  view.Metadata,
		VideoURL:  view.VideoURL,
	}
}

// Save writes the transcript under dir, named by creation time and session
// id, and returns the path written.
func Save(dir string, t Transcript) (string, error) {
	if t.SessionID == "" {
		return "", fmt.Errorf("transcript has no session id")
	}
	created, err := time.Parse(time.RFC3339, t.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("transcript has invalid created_at %q: %w", t.CreatedAt, err)
	}
	name := fmt.Sprintf("%s_%s.json", created.UTC().Format("20060102-150405"), shortID(t.SessionID))
	path := filepath.Join(dir, name)
	if err := WriteJSON(path, t); err != nil {
		return "", err
	}
	return path, nil
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// List returns the transcripts under dir, oldest first. A missing directory
// reads as empty.
func List(dir string) ([]Transcript, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Transcript{}, nil
		}
		return nil, fmt.Errorf("read transcripts directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make([]Transcript, 0, len(names))
	for _, name := range names {
		var t Transcript
		if err := ReadJSON(filepath.Join(dir, name), &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
