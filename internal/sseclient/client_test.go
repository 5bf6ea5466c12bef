package sseclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhengjr9/llm-stream-sim/internal/completion"
	"github.com/zhengjr9/llm-stream-sim/internal/config"
	"github.com/zhengjr9/llm-stream-sim/internal/server"
)

func newSimulator(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(server.New(&config.Config{MaxBodyBytes: 1 << 20}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_Endpoint(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/v1/chat/completions", NewClient("http://localhost:8080/", "").Endpoint())
	assert.Equal(t, "http://h/v1/chat/completions", NewClient("http://h/v1/chat/completions", "").Endpoint())
}

func TestClient_Stream(t *testing.T) {
	srv := newSimulator(t)
	client := NewClient(srv.URL, "")

	start := time.Now()
	events, err := client.Stream(context.Background(), completion.Request{Prompt: "hello", Stream: true})
	require.NoError(t, err)

	summary, err := Collect(events, start)
	require.NoError(t, err)
	assert.True(t, summary.Done)
	assert.GreaterOrEqual(t, len(summary.Chunks), completion.MinChunks)
	assert.Equal(t, completion.BuildContent("hello"), summary.Content())
	assert.GreaterOrEqual(t, summary.Total, time.Duration(len(summary.Chunks))*completion.PaceInterval)
	assert.GreaterOrEqual(t, summary.FirstEvent, completion.PaceInterval)
}

func TestClient_Rejected(t *testing.T) {
	srv := newSimulator(t)
	client := NewClient(srv.URL, "")

	tests := []struct {
		req  completion.Request
		want string
	}{
		{req: completion.Request{Prompt: " ", Stream: true}, want: "Prompt cannot be empty"},
		{req: completion.Request{Prompt: "hello", Stream: false}, want: "stream parameter must be true"},
	}
	for _, tt := range tests {
		_, err := client.Stream(context.Background(), tt.req)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr), "got %v", err)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, 400, apiErr.Code)
		assert.Equal(t, tt.want, apiErr.Message)
	}
}

func TestClient_CancelStopsStream(t *testing.T) {
	srv := newSimulator(t)
	client := NewClient(srv.URL, "")

	ctx, cancel := context.WithCancel(context.Background())
	events, err := client.Stream(ctx, completion.Request{Prompt: "hello", Stream: true})
	require.NoError(t, err)

	first := <-events
	require.NoError(t, first.Err)
	cancel()

	summary, _ := Collect(events, time.Now())
	assert.False(t, summary.Done)
}

func rawSSE(body string) *bufio.Scanner {
	return bufio.NewScanner(strings.NewReader(body))
}

func TestReadStream(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n" +
		"data:{\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n" +
		": comment\n\n" +
		"data: [DONE]\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"late\"}}]}\n\n"

	summary, err := Collect(ReadStream(context.Background(), rawSSE(body)), time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, summary.Chunks)
	assert.True(t, summary.Done)
}

func TestReadStream_ErrorEvent(t *testing.T) {
	body := "data: {\"error\":\"Prompt cannot be empty\",\"code\":400}\n\n"

	_, err := Collect(ReadStream(context.Background(), rawSSE(body)), time.Now())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Prompt cannot be empty", apiErr.Message)
	assert.Equal(t, 400, apiErr.Code)
	assert.Zero(t, apiErr.StatusCode)
}

func TestReadStream_BadJSON(t *testing.T) {
	body := fmt.Sprintf("data: %s\n\n", "{not json")

	summary, err := Collect(ReadStream(context.Background(), rawSSE(body)), time.Now())
	assert.ErrorContains(t, err, "decode event")
	assert.Empty(t, summary.Chunks)
}
