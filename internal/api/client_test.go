package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"viralflow/internal/scenes"
	"viralflow/internal/session"
)

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestFetchModels_DecodesProviderMap(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/available-models" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"gemini":[{"id":"gemini-1.5-flash","name":"Gemini 1.5 Flash"}],"openai":[]}`))
	})

	models, err := client.FetchModels(context.Background())
	if err != nil {
		t.Fatalf("fetch models: %v", err)
	}
	if len(models["gemini"]) != 1 || models["gemini"][0].ID != "gemini-1.5-flash" {
		t.Fatalf("unexpected models: %+v", models)
	}
}

func TestGetProject_EscapesID(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/20260101_001" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "20260101_001",
			"prompt": "bitcoin",
			"plan":   map[string]any{"scenes": []any{}},
			"assets": []map[string]any{
				{"id": 1, "type": "video", "media_url": "http://cdn/1.mp4", "duration": 3.5, "narration": "n", "text": "t"},
			},
			"video_url": "http://cdn/final.mp4",
		})
	})

	detail, err := client.GetProject(context.Background(), "20260101_001")
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if detail.VideoURL != "http://cdn/final.mp4" || len(detail.Assets) != 1 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.Assets[0].Duration != 3.5 {
		t.Fatalf("asset duration lost: %+v", detail.Assets[0])
	}
}

func TestDirectGenerate_SurfacesBackendErrorEnvelope(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"no valid model"}`))
	})

	if _, err := client.DirectGenerate(context.Background(), "a video about go"); err == nil || !strings.Contains(err.Error(), "no valid model") {
		t.Fatalf("expected backend error surfaced, got %v", err)
	}
}

func TestDirectGenerate_DecodesProject(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/direct-video" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["raw_prompt"] != "a video about go" {
			t.Errorf("unexpected prompt %q", body["raw_prompt"])
		}
		w.Write([]byte(`{"id":"p1","prompt":"a video about go","plan":{"scenes":[{"id":1,"visual_search_term":"gopher"}]},"assets":[{"id":1,"type":"image","media_url":"http://cdn/1.jpg"}]}`))
	})

	detail, err := client.DirectGenerate(context.Background(), "a video about go")
	if err != nil {
		t.Fatalf("direct generate: %v", err)
	}
	if detail.ID != "p1" || len(detail.Plan.Scenes) != 1 || len(detail.Assets) != 1 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestRenderVideo_DefaultsSubtitleStyle(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req RenderRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.SubtitleStyle != SubtitleStatic {
			t.Errorf("expected default subtitle style, got %q", req.SubtitleStyle)
		}
		w.Write([]byte(`{"video_url":"http://cdn/final.mp4"}`))
	})

	videoURL, err := client.RenderVideo(context.Background(), RenderRequest{ProjectID: "p1"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if videoURL != "http://cdn/final.mp4" {
		t.Fatalf("unexpected url %q", videoURL)
	}
}

func TestRenderVideo_ErrorEnvelope(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"render crashed"}`))
	})
	if _, err := client.RenderVideo(context.Background(), RenderRequest{ProjectID: "p1"}); err == nil {
		t.Fatal("expected render error")
	}
}

func TestRegenerateScene_RoundTrip(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/regenerate-scene" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req scenes.RegenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.ProjectID != "p1" || req.SceneID != 2 {
			t.Errorf("unexpected request %+v", req)
		}
		w.Write([]byte(`{"media_url":"http://cdn/new.jpg","type":"image"}`))
	})

	result, err := client.RegenerateScene(context.Background(), scenes.RegenerateRequest{
		ProjectID: "p1", SceneID: 2, VisualSearchTerm: "city", VisualAIPrompt: "neon city",
	})
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if result.MediaURL != "http://cdn/new.jpg" || result.Type != "image" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestDoJSON_Non200IsError(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	if _, err := client.GetProject(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestStreamURL_CarriesFullConfigSnapshot(t *testing.T) {
	client := NewClient("http://localhost:8000", time.Second)

	cfg := session.DefaultConfig()
	cfg.Topic = "the hidden history of bitcoin"
	cfg.WriterModel = "gemini-1.5-flash"
	cfg.CriticProvider = "openai"
	cfg.CriticModel = "gpt-4o-mini"
	cfg.VoiceConfig = "en-US-ChristopherNeural"
	cfg.AspectRatio = session.AspectVertical
	cfg.UseConsistentSeed = false

	u, err := url.Parse(client.StreamURL(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if u.Path != "/create-stream" {
		t.Fatalf("unexpected path %q", u.Path)
	}
	q := u.Query()
	expect := map[string]string{
		"topic":               "the hidden history of bitcoin",
		"writer_provider":     "gemini",
		"writer_model":        "gemini-1.5-flash",
		"critic_provider":     "openai",
		"critic_model":        "gpt-4o-mini",
		"duration":            "medium",
		"voice_config":        "en-US-ChristopherNeural",
		"voice_style":         "documentary",
		"aspect_ratio":        "vertical",
		"image_provider":      "pollinations",
		"use_consistent_seed": "false",
		"visual_style":        "documentary",
		"script_mode":         "ai",
		"manual_script":       "",
	}
	for key, want := range expect {
		if got := q.Get(key); got != want {
			t.Fatalf("param %s: expected %q, got %q", key, want, got)
		}
	}
}

func TestStreamURL_ManualModeUsesPlaceholderTopic(t *testing.T) {
	client := NewClient("http://localhost:8000", time.Second)

	cfg := session.DefaultConfig()
	cfg.ScriptMode = session.ScriptModeManual
	cfg.ManualScript = "Paragraph one.\n\nParagraph two."
	cfg.Topic = "ignored"

	u, err := url.Parse(client.StreamURL(cfg))
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if q.Get("topic") != "Custom Script" {
		t.Fatalf("expected placeholder topic, got %q", q.Get("topic"))
	}
	if q.Get("manual_script") != "Paragraph one.\n\nParagraph two." {
		t.Fatalf("manual script not carried: %q", q.Get("manual_script"))
	}
	if q.Get("script_mode") != "manual" {
		t.Fatalf("unexpected script mode %q", q.Get("script_mode"))
	}
}

func TestNewClient_NormalizesBaseURL(t *testing.T) {
	client := NewClient("http://localhost:8000/", time.Second)
	if client.BaseURL() != "http://localhost:8000" {
		t.Fatalf("trailing slash kept: %q", client.BaseURL())
	}
	if NewClient("  ", time.Second).BaseURL() != DefaultBaseURL {
		t.Fatal("empty base url not defaulted")
	}
}
