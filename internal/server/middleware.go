package server

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	apierrors "github.com/zhengjr9/llm-stream-sim/internal/errors"
	"github.com/zhengjr9/llm-stream-sim/internal/httputil"
)

const requestIDHeader = "X-Request-Id"

type ctxKey struct{}

// RequestID returns the id assigned to the request by requestIDMiddleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

var corsPolicy = cors.New(cors.Options{
	AllowedOrigins:     []string{httputil.CORSAllowOrigin},
	AllowedMethods:     []string{http.MethodPost, http.MethodGet, http.MethodOptions},
	AllowedHeaders:     []string{"Content-Type", "Authorization"},
	OptionsPassthrough: true,
})

// corsMiddleware lets rs/cors vet the origin, then restamps the fixed CORS
// headers over its per-request echoes. Preflights pass through to the router.
func corsMiddleware(next http.Handler) http.Handler {
	return corsPolicy.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.SetCORSHeaders(w)
		next.ServeHTTP(w, r)
	}))
}

// requestIDMiddleware propagates X-Request-Id or assigns a fresh one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// loggingMiddleware logs each request with method, path, status, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", lrw.statusCode,
			"bytes", lrw.written,
			"duration", time.Since(start).String(),
			"remote", r.RemoteAddr,
			"request_id", RequestID(r.Context()),
		)
	})
}

// recoveryMiddleware catches panics and returns a 500.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "error", rec, "stack", string(debug.Stack()))
				apierrors.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// loggingResponseWriter captures the status code written by the handler. It
// forwards Flush so streamed events are not held back.
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(p []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(p)
	lrw.written += n
	return n, err
}

func (lrw *loggingResponseWriter) Flush() {
	if f, ok := lrw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (lrw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lrw.ResponseWriter
}
