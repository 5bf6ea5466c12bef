package completion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/zhengjr9/llm-stream-sim/internal/errors"
	"github.com/zhengjr9/llm-stream-sim/internal/httputil"
	"github.com/zhengjr9/llm-stream-sim/internal/metrics"
)

// Handler implements the streaming chat completions endpoint.
type Handler struct {
	responder    *Responder
	maxBodyBytes int64
}

// NewHandler constructs a Handler. Request bodies larger than maxBodyBytes
// are rejected as malformed.
func NewHandler(maxBodyBytes int64) *Handler {
	return &Handler{responder: NewResponder(), maxBodyBytes: maxBodyBytes}
}

// ServeHTTP handles POST /v1/chat/completions. Request errors are answered as
// a single SSE-framed ErrorEvent. A writer that cannot flush is a server fault
// and gets a JSON 500 instead, because no event-stream response was started.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := DecodeRequest(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		slog.Debug("rejecting request body", "error", err)
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeMalformed).Inc()
		apierrors.WriteSSEError(w, http.StatusBadRequest, apierrors.ErrMalformedBody.Error())
		return
	}

	stream, err := h.responder.Respond(req)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		var verr *apierrors.ValidationError
		if errors.As(err, &verr) {
			apierrors.WriteSSEError(w, verr.Code, verr.Message)
			return
		}
		apierrors.WriteSSEError(w, http.StatusBadRequest, err.Error())
		return
	}

	fw := httputil.NewFlushWriter(w)
	if !fw.CanFlush() {
		slog.Error("cannot stream response", "error", apierrors.ErrStreamingUnsupported)
		apierrors.WriteJSONError(w, http.StatusInternalServerError, apierrors.ErrStreamingUnsupported.Error())
		return
	}

	httputil.SetSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	fw.Flush()

	outcome := h.writeStream(r.Context(), fw, stream)
	metrics.RequestsTotal.WithLabelValues(outcome).Inc()
}

// writeStream pulls events from stream and writes each one as soon as it is
// produced. It returns the request outcome for metrics.
func (h *Handler) writeStream(ctx context.Context, fw *httputil.FlushWriter, stream *Stream) string {
	metrics.ActiveStreams.Inc()
	start := time.Now()
	defer func() {
		metrics.ActiveStreams.Dec()
		metrics.ChunksEmittedTotal.Add(float64(stream.Emitted()))
	}()

	for {
		event, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				slog.Debug("client went away", "emitted", stream.Emitted(), "chunks", stream.Len())
			} else {
				slog.Error("stream aborted", "error", err, "emitted", stream.Emitted())
			}
			return metrics.OutcomeAborted
		}
		if err := fw.WriteEvent(event); err != nil {
			slog.Debug("write event", "error", err, "emitted", stream.Emitted())
			return metrics.OutcomeAborted
		}
	}

	elapsed := time.Since(start)
	metrics.StreamDuration.Observe(elapsed.Seconds())
	slog.Debug("stream complete", "chunks", stream.Emitted(), "duration", elapsed.String())
	return metrics.OutcomeStreamed
}
