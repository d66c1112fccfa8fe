package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"viralflow/internal/seo"
)

// EventKind discriminates the typed events a consumer dispatches.
type EventKind int

const (
	// EventLog carries one progress log line from the pipeline.
	EventLog EventKind = iota
	// EventMetadata carries a youtube_metadata payload. Payloads fully replace
	// one another; the consumer never merges them.
	EventMetadata
	// EventDone is the terminal success frame. URL carries the rendered video.
	EventDone
	// EventError is the terminal upstream-error frame.
	EventError
	// EventProtocolError reports a frame that was neither a comment sentinel
	// nor decodable structured data. The stream is closed afterwards.
	EventProtocolError
	// EventDisconnect reports a transport-level end of stream before any
	// terminal frame was seen.
	EventDisconnect
)

type Event struct {
	Kind     EventKind
	Log      string
	Metadata *seo.Metadata
	URL      string
	Message  string
	Err      error
}

// frame is one decoded data frame. Every field is optional; a single frame may
// carry a log line and metadata at once.
type frame struct {
	Log      string        `json:"log"`
	Metadata *seo.Metadata `json:"youtube_metadata"`
	Status   string        `json:"status"`
	URL      string        `json:"url"`
	Message  string        `json:"message"`
}

// Consumer is one receive-only progress stream. It is strictly server-paced;
// the only backpressure the client exercises is closing the connection.
type Consumer struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	body   io.ReadCloser
	closed bool

	done chan struct{}
}

// Open connects to streamURL and dispatches typed events to handle from a
// reader goroutine until a terminal frame, a protocol error, Close, or a
// transport disconnect. handle is never called concurrently with itself.
func Open(ctx context.Context, client *http.Client, streamURL string, handle func(Event)) (*Consumer, error) {
	if handle == nil {
		return nil, fmt.Errorf("stream handler is required")
	}
	readCtx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(readCtx, http.MethodGet, streamURL, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("open stream: server returned status %d", resp.StatusCode)
	}

	c := &Consumer{
		cancel: cancel,
		body:   resp.Body,
		done:   make(chan struct{}),
	}
	go c.readLoop(resp.Body, handle)
	return c, nil
}

// Close releases the transport. It is idempotent, never blocks on the reader
// goroutine, and suppresses the disconnect event a torn-down body would
// otherwise produce.
func (c *Consumer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Consumer) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	_ = c.body.Close()
}

// Done is closed once the reader goroutine has exited.
func (c *Consumer) Done() <-chan struct{} {
	return c.done
}

func (c *Consumer) readLoop(body io.Reader, handle func(Event)) {
	defer close(c.done)

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			// Blank line terminates one SSE event.
			payload := data.String()
			data.Reset()
			if payload == "" {
				continue
			}
			if terminal := c.dispatch(payload, handle); terminal {
				return
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			// Heartbeat / keep-alive comment. Not data.
			continue
		}
		if rest, ok := strings.CutPrefix(line, "data:"); ok {
			data.WriteString(strings.TrimPrefix(rest, " "))
			continue
		}
		if strings.HasPrefix(line, "event:") || strings.HasPrefix(line, "id:") || strings.HasPrefix(line, "retry:") {
			continue
		}

		// Anything else is not a frame this protocol defines.
		c.fail(handle, fmt.Errorf("malformed stream line: %q", truncate(line)))
		return
	}

	// Flush a final data block that arrived without a trailing blank line.
	if payload := data.String(); payload != "" {
		if terminal := c.dispatch(payload, handle); terminal {
			return
		}
	}

	c.mu.Lock()
	closedByUs := c.closed
	c.closeLocked()
	c.mu.Unlock()
	if !closedByUs {
		handle(Event{Kind: EventDisconnect, Err: scanner.Err()})
	}
}

// dispatch decodes one data payload and emits its events. It reports whether
// the frame was terminal (in which case the transport is already closed).
func (c *Consumer) dispatch(payload string, handle func(Event)) bool {
	var f frame
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		c.fail(handle, fmt.Errorf("undecodable stream frame %q: %w", truncate(payload), err))
		return true
	}

	if f.Log != "" {
		handle(Event{Kind: EventLog, Log: f.Log})
	}
	if f.Metadata != nil {
		handle(Event{Kind: EventMetadata, Metadata: f.Metadata})
	}

	switch f.Status {
	case "done":
		c.Close()
		handle(Event{Kind: EventDone, URL: f.URL})
		return true
	case "error":
		c.Close()
		handle(Event{Kind: EventError, Message: f.Message})
		return true
	}
	return false
}

func (c *Consumer) fail(handle func(Event), err error) {
	c.Close()
	handle(Event{Kind: EventProtocolError, Err: err})
}

func truncate(s string) string {
	const max = 160
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
