package httputil

import "net/http"

// FlushWriter wraps http.ResponseWriter and exposes a Flush method that is a no-op
// when the underlying writer does not implement http.Flusher.
type FlushWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func NewFlushWriter(w http.ResponseWriter) *FlushWriter {
	fw := &FlushWriter{w: w}
	if f, ok := w.(http.Flusher); ok {
		fw.flusher = f
	}
	return fw
}

// CanFlush reports whether writes can be pushed to the client incrementally.
// Callers must not start an event stream when it reports false: every event
// would sit in a buffer until the handler returns.
func (fw *FlushWriter) CanFlush() bool { return fw.flusher != nil }

func (fw *FlushWriter) Header() http.Header         { return fw.w.Header() }
func (fw *FlushWriter) WriteHeader(code int)        { fw.w.WriteHeader(code) }
func (fw *FlushWriter) Write(p []byte) (int, error) { return fw.w.Write(p) }
func (fw *FlushWriter) Flush() {
	if fw.flusher != nil {
		fw.flusher.Flush()
	}
}

// WriteEvent writes one framed event and flushes it.
func (fw *FlushWriter) WriteEvent(event []byte) error {
	if _, err := fw.w.Write(event); err != nil {
		return err
	}
	fw.Flush()
	return nil
}
