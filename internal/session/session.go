package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"viralflow/internal/seo"
	"viralflow/internal/stream"
)

// ErrMissingInput marks an ignite attempt whose config cannot start a run.
// The session is left exactly as it was.
var ErrMissingInput = errors.New("missing required input")

// LogEntry is one line of the session log. The capture timestamp is assigned
// client-side at receipt; the server does not guarantee one.
type LogEntry struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Stream is the handle a session holds on its open progress stream.
type Stream interface {
	Close()
}

// Opener opens a progress stream for one captured config. The handler receives
// every typed event until the stream ends.
type Opener interface {
	OpenStream(cfg Config, handle func(stream.Event)) (Stream, error)
}

// Session is one end-to-end attempt to produce a video: a status state
// machine fed by stream events and explicit user actions. A session owns at
// most one open stream at any time; starting a new one always closes the
// previous one first.
type Session struct {
	mu sync.Mutex

	opener Opener
	now    func() time.Time

	id       string
	status   string
	config   Config
	logs     []LogEntry
	metadata *seo.Canonical
	videoURL string

	stream Stream
	// streamSeq identifies the current stream. Handlers capture the sequence
	// they were opened under; events from a superseded stream are dropped.
	streamSeq int
}

// View is a point-in-time copy of session state, safe to render.
type View struct {
	ID       string
	Status   string
	Config   Config
	Logs     []LogEntry
	Metadata *seo.Canonical
	VideoURL string
}

func New(opener Opener) *Session {
	return &Session{
		opener: opener,
		now:    time.Now,
		status: StatusIdle,
	}
}

// Ignite validates cfg, closes any open stream, clears prior run state, and
// opens a fresh progress stream with an immutable snapshot of cfg. With
// invalid input it is a no-op apart from the returned error.
func (s *Session) Ignite(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	snapshot := cfg.Normalized()

	s.mu.Lock()
	if err := s.transitionLocked(StatusStreaming); err != nil {
		s.mu.Unlock()
		return err
	}
	s.closeStreamLocked()
	s.streamSeq++
	seq := s.streamSeq
	s.id = uuid.NewString()
	s.config = snapshot
	s.logs = nil
	s.metadata = nil
	s.videoURL = ""
	s.mu.Unlock()

	st, err := s.opener.OpenStream(snapshot, func(ev stream.Event) {
		s.handleEvent(seq, ev)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.streamSeq {
		// Superseded while opening; whoever replaced us owns the session now.
		if st != nil {
			st.Close()
		}
		return nil
	}
	if err != nil {
		s.appendLogLocked("Failed to open pipeline stream: " + err.Error())
		s.status = StatusError
		return err
	}
	s.stream = st
	return nil
}

// Abort closes the stream and returns the session to idle with a synthetic
// log entry. Cancellation is client-local: the server is not told to stop.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusStreaming {
		return
	}
	s.closeStreamLocked()
	s.appendLogLocked("Sequence aborted by user.")
	s.status = StatusIdle
}

// AppendLog records an out-of-band client-side log entry.
func (s *Session) AppendLog(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLogLocked(text)
}

// BeginRender moves the session into the rendering state used by the
// direct-generation and render flows. It never runs concurrently with an
// open stream: streaming sessions must finish or abort first.
func (s *Session) BeginRender(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transitionLocked(StatusRendering); err != nil {
		return err
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.config = cfg.Normalized()
	return nil
}

// FinishRender completes a rendering flow with the produced video URL.
func (s *Session) FinishRender(videoURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transitionLocked(StatusSuccess); err != nil {
		return err
	}
	s.videoURL = videoURL
	return nil
}

// FailRender records a render failure. Previously generated assets are kept
// by the caller for retry; only status and log change here.
func (s *Session) FailRender(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transitionLocked(StatusError); err != nil {
		return
	}
	s.appendLogLocked("Render failed: " + message)
}

// ReplaceWithProject swaps the whole session view for a loaded history
// project. Any open stream is closed first so late frames cannot leak into
// the replacement.
func (s *Session) ReplaceWithProject(projectID, prompt, videoURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeStreamLocked()
	s.id = projectID
	s.config = DefaultConfig()
	s.config.Topic = prompt
	s.logs = nil
	s.metadata = nil
	s.videoURL = videoURL
	// A loaded project is a replacement, not a transition of the running
	// machine: the view starts over from the stored outcome.
	if videoURL != "" {
		s.status = StatusSuccess
	} else {
		s.status = StatusIdle
	}
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := make([]LogEntry, len(s.logs))
	copy(logs, s.logs)
	var md *seo.Canonical
	if s.metadata != nil {
		cp := *s.metadata
		md = &cp
	}
	return View{
		ID:       s.id,
		Status:   s.status,
		Config:   s.config,
		Logs:     logs,
		Metadata: md,
		VideoURL: s.videoURL,
	}
}

func (s *Session) handleEvent(seq int, ev stream.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.streamSeq {
		return
	}

	switch ev.Kind {
	case stream.EventLog:
		s.appendLogLocked(ev.Log)
	case stream.EventMetadata:
		// Last write wins: each payload fully replaces the previous one.
		canonical := seo.Normalize(*ev.Metadata)
		s.metadata = &canonical
	case stream.EventDone:
		s.videoURL = ev.URL
		s.status = StatusDone
		s.closeStreamLocked()
	case stream.EventError:
		s.appendLogLocked("FATAL ERROR: " + ev.Message)
		s.status = StatusError
		s.closeStreamLocked()
	case stream.EventProtocolError:
		s.appendLogLocked("Malformed pipeline frame: " + ev.Err.Error())
		s.status = StatusError
		s.closeStreamLocked()
	case stream.EventDisconnect:
		// Implicit error, unless the run already finished.
		if s.status == StatusStreaming {
			msg := "Pipeline stream disconnected before completion."
			if ev.Err != nil {
				msg += " (" + ev.Err.Error() + ")"
			}
			s.appendLogLocked(msg)
			s.status = StatusError
		}
		s.closeStreamLocked()
	}
}

// closeStreamLocked enforces close-before-open: it releases the current
// stream, if any, and invalidates its handler so late events are dropped.
func (s *Session) closeStreamLocked() {
	if s.stream != nil {
		s.stream.Close()
		s.stream = nil
	}
	s.streamSeq++
}

func (s *Session) appendLogLocked(text string) {
	s.logs = append(s.logs, LogEntry{Text: text, At: s.now()})
}
