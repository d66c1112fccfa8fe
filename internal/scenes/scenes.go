package scenes

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const (
	MediaTypeVideo = "video"
	MediaTypeImage = "image"
)

// Plan is the planning-time description of a scene, immutable once produced.
type Plan struct {
	ID               int    `json:"id"`
	VisualSearchTerm string `json:"visual_search_term"`
	VisualAIPrompt   string `json:"visual_ai_prompt"`
}

// Scene is one realized asset. Its position in the set is the timeline order.
type Scene struct {
	ID        int     `json:"id"`
	Type      string  `json:"type"`
	MediaURL  string  `json:"media_url"`
	Duration  float64 `json:"duration"`
	Narration string  `json:"narration"`
	Text      string  `json:"text"`
	AudioURL  string  `json:"audio_url,omitempty"`
}

type RegenerateRequest struct {
	ProjectID        string `json:"project_id"`
	SceneID          int    `json:"scene_id"`
	VisualSearchTerm string `json:"visual_search_term"`
	VisualAIPrompt   string `json:"visual_ai_prompt"`
}

type RegenerateResult struct {
	MediaURL string `json:"media_url"`
	Type     string `json:"type"`
}

// Regenerator issues one scene-regeneration request against the backend.
type Regenerator interface {
	RegenerateScene(ctx context.Context, req RegenerateRequest) (RegenerateResult, error)
}

// ErrRegenerationInFlight rejects a second regeneration of a scene id whose
// first one is still outstanding. There is no queueing.
var ErrRegenerationInFlight = errors.New("regeneration already in flight for scene")

var ErrUnknownScene = errors.New("unknown scene id")

// Set is the ordered scene list of the active project. Regeneration replaces
// media in place and never reorders; regenerations of distinct ids run fully
// in parallel, guarded one-in-flight per id.
type Set struct {
	mu       sync.Mutex
	scenes   []Scene
	inflight map[int]bool
}

func NewSet() *Set {
	return &Set{inflight: make(map[int]bool)}
}

// Replace swaps the whole scene list, e.g. after direct generation or a
// project load. In-flight markers are dropped with the scenes they guarded.
func (s *Set) Replace(scenes []Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenes = make([]Scene, len(scenes))
	copy(s.scenes, scenes)
	s.inflight = make(map[int]bool)
}

// Scenes returns a copy of the list in timeline order.
func (s *Set) Scenes() []Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Scene, len(s.scenes))
	copy(out, s.scenes)
	return out
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scenes)
}

// InFlight reports whether a regeneration for sceneID is outstanding.
func (s *Set) InFlight(sceneID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[sceneID]
}

// Regenerate requests fresh media for one scene and applies it in place. The
// call blocks for the round trip; run it from its own goroutine to regenerate
// several scenes at once. On failure the scene is left untouched. The
// in-flight marker is cleared on every outcome.
func (s *Set) Regenerate(ctx context.Context, r Regenerator, projectID string, sceneID int, searchTerm, aiPrompt string) error {
	s.mu.Lock()
	if !s.hasSceneLocked(sceneID) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownScene, sceneID)
	}
	if s.inflight[sceneID] {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrRegenerationInFlight, sceneID)
	}
	s.inflight[sceneID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, sceneID)
		s.mu.Unlock()
	}()

	result, err := r.RegenerateScene(ctx, RegenerateRequest{
		ProjectID:        projectID,
		SceneID:          sceneID,
		VisualSearchTerm: searchTerm,
		VisualAIPrompt:   aiPrompt,
	})
	if err != nil {
		return fmt.Errorf("regenerate scene %d: %w", sceneID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.scenes {
		if s.scenes[i].ID == sceneID {
			s.scenes[i].MediaURL = result.MediaURL
			s.scenes[i].Type = result.Type
			return nil
		}
	}
	// The set was replaced while the request was out; nothing to apply.
	return nil
}

func (s *Set) hasSceneLocked(sceneID int) bool {
	for i := range s.scenes {
		if s.scenes[i].ID == sceneID {
			return true
		}
	}
	return false
}
