package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ContentTypeEventStream is the media type of every SSE response, errors included.
const ContentTypeEventStream = "text/event-stream"

// DoneSentinel is the payload of the terminal event.
const DoneSentinel = "[DONE]"

// CORS header values applied to every response.
const (
	CORSAllowOrigin  = "*"
	CORSAllowMethods = "POST, GET, OPTIONS"
	CORSAllowHeaders = "Content-Type, Authorization"
)

var doneEvent = []byte("data: " + DoneSentinel + "\n\n")

// SetSSEHeaders sets the standard headers for a Server-Sent Events response.
func SetSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentTypeEventStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// SetCORSHeaders sets the permissive cross-origin headers.
func SetCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", CORSAllowOrigin)
	w.Header().Set("Access-Control-Allow-Methods", CORSAllowMethods)
	w.Header().Set("Access-Control-Allow-Headers", CORSAllowHeaders)
}

// FormatEvent marshals v and frames it as "data: <json>\n\n".
func FormatEvent(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	event := make([]byte, 0, len(data)+8)
	event = append(event, "data: "...)
	event = append(event, data...)
	event = append(event, '\n', '\n')
	return event, nil
}

// DoneEvent returns the framed terminal sentinel.
func DoneEvent() []byte {
	return append([]byte(nil), doneEvent...)
}
