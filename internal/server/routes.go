package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/zhengjr9/llm-stream-sim/internal/completion"
	apierrors "github.com/zhengjr9/llm-stream-sim/internal/errors"
)

const (
	serviceName    = "llm-stream-sim"
	serviceVersion = "1.0.0"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// InfoResponse is returned by GET /.
type InfoResponse struct {
	Service        string             `json:"service"`
	Version        string             `json:"version"`
	Endpoint       string             `json:"endpoint"`
	Description    string             `json:"description"`
	ExampleRequest completion.Request `json:"example_request"`
	ChunkInterval  string             `json:"chunk_interval"`
	MinChunks      int                `json:"min_chunks"`
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
	})
}

func info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Service:        serviceName,
		Version:        serviceVersion,
		Endpoint:       "POST /v1/chat/completions",
		Description:    "Synthetic completions delivered incrementally as Server-Sent Events",
		ExampleRequest: completion.Request{Prompt: "Your prompt here", Stream: true},
		ChunkInterval:  completion.PaceInterval.String(),
		MinChunks:      completion.MinChunks,
	})
}

// preflight answers bare OPTIONS requests; browser preflights carrying an
// Origin are answered by the CORS middleware before reaching the router.
func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteJSONError(w, http.StatusNotFound, "no route for "+r.URL.Path)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteJSONError(w, http.StatusMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
