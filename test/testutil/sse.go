// Package testutil holds helpers shared by the integration and end-to-end tests.
package testutil

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zhengjr9/llm-stream-sim/internal/completion"
	"github.com/zhengjr9/llm-stream-sim/internal/config"
	"github.com/zhengjr9/llm-stream-sim/internal/server"
)

// NewServer starts the full HTTP stack on a loopback httptest server.
func NewServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		ListenAddr:     ":0",
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    30 * time.Second,
		MetricsEnabled: true,
		MaxBodyBytes:   1 << 20,
	}
	srv := httptest.NewServer(server.New(cfg).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// TimedEvent is one raw SSE data payload and when it arrived.
type TimedEvent struct {
	Data string
	At   time.Duration
}

// ReadEvents reads every data payload in body until EOF, timestamping each
// relative to start. Lines that are neither data fields nor blank fail the test.
func ReadEvents(t *testing.T, body io.Reader, start time.Time) []TimedEvent {
	t.Helper()
	var events []TimedEvent
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			t.Fatalf("unexpected SSE line %q", line)
		}
		events = append(events, TimedEvent{Data: data, At: time.Since(start)})
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("read stream: %v", err)
	}
	return events
}

// DeltaContent decodes a data payload as a stream chunk and returns its content.
func DeltaContent(t *testing.T, data string) string {
	t.Helper()
	var chunk completion.StreamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		t.Fatalf("decode chunk %q: %v", data, err)
	}
	if len(chunk.Choices) != 1 || chunk.Choices[0].Delta.Content == nil {
		t.Fatalf("chunk %q has no delta content", data)
	}
	return *chunk.Choices[0].Delta.Content
}
