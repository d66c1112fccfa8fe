package session

import "testing"

func TestCanTransition_AllowsExpectedPaths(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{"", StatusIdle},
		{StatusIdle, StatusStreaming},
		{StatusIdle, StatusRendering},
		{StatusStreaming, StatusStreaming},
		{StatusStreaming, StatusDone},
		{StatusStreaming, StatusError},
		{StatusStreaming, StatusIdle},
		{StatusRendering, StatusSuccess},
		{StatusRendering, StatusError},
		{StatusDone, StatusStreaming},
		{StatusError, StatusStreaming},
		{StatusSuccess, StatusRendering},
	}

	for _, tc := range cases {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransition_RejectsInvalidPaths(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{StatusIdle, StatusDone},    // done is only reachable through streaming
		{StatusIdle, StatusError},   // errors come from an active flow
		{StatusIdle, StatusSuccess}, // success is only reachable through rendering
		{StatusStreaming, StatusRendering},
		{StatusStreaming, StatusSuccess},
		{StatusRendering, StatusDone},
		{StatusRendering, StatusStreaming},
		{StatusDone, StatusSuccess},
		{"not_a_state", StatusIdle},
	}

	for _, tc := range cases {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be rejected", tc.from, tc.to)
		}
	}
}

func TestIsKnownStatus(t *testing.T) {
	for _, status := range []string{StatusIdle, StatusStreaming, StatusRendering, StatusDone, StatusSuccess, StatusError} {
		if !IsKnownStatus(status) {
			t.Fatalf("expected %q to be known", status)
		}
	}
	if IsKnownStatus("downloading") {
		t.Fatal("expected unknown status to be rejected")
	}
}
