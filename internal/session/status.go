package session

import "fmt"

const (
	StatusIdle      = "idle"
	StatusStreaming = "streaming"
	StatusRendering = "rendering"
	StatusDone      = "done"
	StatusSuccess   = "success"
	StatusError     = "error"
)

var allowedTransitions = map[string]map[string]bool{
	"": {
		StatusIdle: true,
	},
	StatusIdle: {
		StatusIdle:      true, // ignite with invalid input is a no-op
		StatusStreaming: true,
		StatusRendering: true,
	},
	StatusStreaming: {
		StatusStreaming: true, // log/metadata frames
		StatusDone:      true,
		StatusError:     true,
		StatusIdle:      true, // abort
	},
	StatusRendering: {
		StatusRendering: true,
		StatusSuccess:   true,
		StatusError:     true,
	},
	StatusDone: {
		StatusDone:      true, // late transport errors never downgrade a done run
		StatusStreaming: true, // re-ignite
		StatusRendering: true,
		StatusIdle:      true,
	},
	StatusError: {
		StatusError:     true,
		StatusStreaming: true,
		StatusRendering: true,
		StatusIdle:      true,
	},
	StatusSuccess: {
		StatusSuccess:   true,
		StatusStreaming: true,
		StatusRendering: true,
		StatusIdle:      true,
	},
}

func IsKnownStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func (s *Session) transitionLocked(to string) error {
	if !CanTransition(s.status, to) {
		return fmt.Errorf("invalid session status transition: %q -> %q (session_id=%s)", s.status, to, s.id)
	}
	s.status = to
	return nil
}
