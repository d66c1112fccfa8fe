package history

import (
	"context"
	"fmt"
	"sync"

	"viralflow/internal/scenes"
	"viralflow/internal/session"
)

// ProjectSummary is one row of the remote project history.
type ProjectSummary struct {
	ID       string `json:"id"`
	Prompt   string `json:"prompt"`
	HasVideo bool   `json:"has_video"`
}

type ProjectPlan struct {
	Scenes []scenes.Plan `json:"scenes"`
}

// ProjectDetail is the full stored state of one project.
type ProjectDetail struct {
	ID       string         `json:"id"`
	Prompt   string         `json:"prompt"`
	Plan     ProjectPlan    `json:"plan"`
	Assets   []scenes.Scene `json:"assets"`
	VideoURL string         `json:"video_url,omitempty"`
}

// Client fetches project history from the backend.
type Client interface {
	ListProjects(ctx context.Context) ([]ProjectSummary, error)
	GetProject(ctx context.Context, id string) (ProjectDetail, error)
}

// Store caches the remote project list. It refreshes on initialization and
// after a successful direct generation or render; there are no other refresh
// triggers.
type Store struct {
	mu       sync.Mutex
	client   Client
	projects []ProjectSummary
}

func NewStore(client Client) *Store {
	return &Store{client: client}
}

// Refresh re-fetches the project summary list.
func (s *Store) Refresh(ctx context.Context) error {
	projects, err := s.client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("refresh project history: %w", err)
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}

// Projects returns the cached summary list.
func (s *Store) Projects() []ProjectSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ProjectSummary, len(s.projects))
	copy(out, s.projects)
	return out
}

// Load fetches one project's full detail and swaps it in as the active view:
// the session is replaced wholesale (closing any open stream first) and the
// scene set takes the stored assets.
func (s *Store) Load(ctx context.Context, id string, sess *session.Session, set *scenes.Set) (ProjectDetail, error) {
	detail, err := s.client.GetProject(ctx, id)
	if err != nil {
		return ProjectDetail{}, fmt.Errorf("load project %s: %w", id, err)
	}
	sess.ReplaceWithProject(detail.ID, detail.Prompt, detail.VideoURL)
	set.Replace(detail.Assets)
	return detail, nil
}
