package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhengjr9/llm-stream-sim/internal/completion"
	"github.com/zhengjr9/llm-stream-sim/internal/config"
	"github.com/zhengjr9/llm-stream-sim/internal/server"
	"github.com/zhengjr9/llm-stream-sim/internal/sseclient"
)

func TestRun(t *testing.T) {
	srv := httptest.NewServer(server.New(&config.Config{MaxBodyBytes: 1 << 20}).Handler())
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), sseclient.NewClient(srv.URL, ""), completion.Request{Prompt: "hello", Stream: true}, false, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), completion.BuildContent("hello"))
	assert.Contains(t, out.String(), "completed:         true")
}

func TestRun_Rejected(t *testing.T) {
	srv := httptest.NewServer(server.New(&config.Config{MaxBodyBytes: 1 << 20}).Handler())
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), sseclient.NewClient(srv.URL, ""), completion.Request{Prompt: "hello"}, true, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "rejected: HTTP 400, code 400: stream parameter must be true")
}
