package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func sseServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer is not a flusher")
			return
		}
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n", line)
			flusher.Flush()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitDone(t *testing.T, c *Consumer) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("consumer reader did not exit")
	}
}

func TestConsumer_DispatchesLogMetadataAndDone(t *testing.T) {
	srv := sseServer(t,
		`: keep-alive`,
		``,
		`data: {"log":"writing script"}`,
		``,
		`data: {"log":"critiquing","youtube_metadata":{"titles":["T1"],"tags":["a","b"]}}`,
		``,
		`data: {"status":"done","url":"http://example.com/final.mp4"}`,
		``,
	)

	rec := &recorder{}
	c, err := Open(context.Background(), srv.Client(), srv.URL, rec.handle)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	waitDone(t, c)

	events := rec.snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d: %+v", len(events), events)
	}
	if events[0].Kind != EventLog || events[0].Log != "writing script" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Kind != EventLog || events[1].Log != "critiquing" {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
	if events[2].Kind != EventMetadata || events[2].Metadata == nil {
		t.Fatalf("unexpected third event: %+v", events[2])
	}
	if events[3].Kind != EventDone || events[3].URL != "http://example.com/final.mp4" {
		t.Fatalf("unexpected terminal event: %+v", events[3])
	}
}

func TestConsumer_UpstreamErrorFrameIsTerminal(t *testing.T) {
	srv := sseServer(t,
		`data: {"log":"step 1"}`,
		``,
		`data: {"status":"error","message":"voice synthesis failed"}`,
		``,
		`data: {"log":"never delivered"}`,
		``,
	)

	rec := &recorder{}
	c, err := Open(context.Background(), srv.Client(), srv.URL, rec.handle)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	waitDone(t, c)

	events := rec.snapshot()
	last := events[len(events)-1]
	if last.Kind != EventError || last.Message != "voice synthesis failed" {
		t.Fatalf("expected terminal error event, got %+v", last)
	}
	for _, ev := range events {
		if ev.Kind == EventLog && ev.Log == "never delivered" {
			t.Fatal("frame after terminal frame was processed")
		}
	}
}

func TestConsumer_UndecodableFrameIsProtocolError(t *testing.T) {
	srv := sseServer(t,
		`data: {not json at all`,
		``,
	)

	rec := &recorder{}
	c, err := Open(context.Background(), srv.Client(), srv.URL, rec.handle)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	waitDone(t, c)

	events := rec.snapshot()
	if len(events) != 1 || events[0].Kind != EventProtocolError {
		t.Fatalf("expected single protocol error event, got %+v", events)
	}
	if events[0].Err == nil {
		t.Fatal("protocol error event carries no diagnostic")
	}
}

func TestConsumer_MalformedLineIsProtocolError(t *testing.T) {
	srv := sseServer(t,
		`this is not an sse field`,
		``,
	)

	rec := &recorder{}
	c, err := Open(context.Background(), srv.Client(), srv.URL, rec.handle)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	waitDone(t, c)

	events := rec.snapshot()
	if len(events) != 1 || events[0].Kind != EventProtocolError {
		t.Fatalf("expected protocol error, got %+v", events)
	}
}

func TestConsumer_TransportEndWithoutTerminalIsDisconnect(t *testing.T) {
	srv := sseServer(t,
		`data: {"log":"step 1"}`,
		``,
	)

	rec := &recorder{}
	c, err := Open(context.Background(), srv.Client(), srv.URL, rec.handle)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	waitDone(t, c)

	events := rec.snapshot()
	last := events[len(events)-1]
	if last.Kind != EventDisconnect {
		t.Fatalf("expected disconnect event, got %+v", last)
	}
}

func TestConsumer_CloseSuppressesDisconnect(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-block
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	rec := &recorder{}
	c, err := Open(context.Background(), srv.Client(), srv.URL, rec.handle)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	c.Close()
	c.Close() // idempotent
	waitDone(t, c)

	if events := rec.snapshot(); len(events) != 0 {
		t.Fatalf("expected no events after explicit close, got %+v", events)
	}
}

func TestOpen_Non200StatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	if _, err := Open(context.Background(), srv.Client(), srv.URL, func(Event) {}); err == nil {
		t.Fatal("expected open to fail on non-200 response")
	}
}
