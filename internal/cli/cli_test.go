package cli

import (
	"flag"
	"path/filepath"
	"testing"

	"viralflow/internal/session"
	"viralflow/internal/stream"
)

func TestRun_UnknownCommandFails(t *testing.T) {
	if err := Run([]string{"frobnicate"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	if err := Run(nil); err != nil {
		t.Fatalf("bare invocation should not fail: %v", err)
	}
}

type recordingStream struct{}

func (recordingStream) Close() {}

type recordingOpener struct {
	handle func(stream.Event)
}

func (o *recordingOpener) OpenStream(cfg session.Config, handle func(stream.Event)) (session.Stream, error) {
	o.handle = handle
	return recordingStream{}, nil
}

func TestTapOpener_ObserverRunsAfterInnerHandler(t *testing.T) {
	inner := &recordingOpener{}
	var order []string
	opener := &tapOpener{
		inner: inner,
		tap: func(stream.Event) {
			order = append(order, "tap")
		},
	}

	_, err := opener.OpenStream(session.DefaultConfig(), func(stream.Event) {
		order = append(order, "session")
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	inner.handle(stream.Event{Kind: stream.EventLog, Log: "x"})
	if len(order) != 2 || order[0] != "session" || order[1] != "tap" {
		t.Fatalf("wrong dispatch order: %v", order)
	}
}

func TestBackendFlags_BaseURLFlagWins(t *testing.T) {
	t.Setenv("VIRALFLOW_BASE_URL", "")
	t.Setenv("VIRALFLOW_TRANSCRIPTS_DIR", "")
	t.Setenv("VIRALFLOW_SUBTITLE_STYLE", "")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	backend := addBackendFlags(fs)
	configPath := filepath.Join(t.TempDir(), "settings.json")
	if err := fs.Parse([]string{"--config", configPath, "--base-url", "http://elsewhere:9000/"}); err != nil {
		t.Fatal(err)
	}

	settings, err := backend.settings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if settings.BaseURL != "http://elsewhere:9000" {
		t.Fatalf("flag override lost: %q", settings.BaseURL)
	}
}
