package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zhengjr9/llm-stream-sim/internal/httputil"
)

// KindValidation labels client errors detected before streaming begins.
const KindValidation = "validation"

var (
	ErrMalformedBody        = errors.New("malformed request body")
	ErrEmptyPrompt          = errors.New("empty prompt")
	ErrStreamDisabled       = errors.New("stream disabled")
	ErrStreamingUnsupported = errors.New("streaming not supported by response writer")
)

// ValidationError is a request the responder refuses to stream. Message is
// shown to the caller verbatim.
type ValidationError struct {
	Message string
	Code    int
	Err     error
}

// NewValidationError returns a 400 validation error wrapping err.
func NewValidationError(err error, message string) *ValidationError {
	return &ValidationError{Message: message, Code: http.StatusBadRequest, Err: err}
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// Kind reports the error taxonomy bucket.
func (e *ValidationError) Kind() string { return KindValidation }

// ErrorEvent is the SSE payload sent in place of a stream when a request is rejected.
type ErrorEvent struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type jsonError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	body := jsonError{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	_ = json.NewEncoder(w).Encode(body)
}

// WriteSSEError writes a single framed ErrorEvent with the event-stream content
// type, so clients parse failures with the same reader as successful streams.
func WriteSSEError(w http.ResponseWriter, statusCode int, message string) {
	event, err := httputil.FormatEvent(ErrorEvent{Error: message, Code: statusCode})
	w.Header().Set("Content-Type", httputil.ContentTypeEventStream)
	w.WriteHeader(statusCode)
	if err != nil {
		return
	}
	_, _ = w.Write(event)
}
