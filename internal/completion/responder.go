package completion

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	apierrors "github.com/zhengjr9/llm-stream-sim/internal/errors"
)

// Responder validates requests and builds their event streams.
type Responder struct {
	pace time.Duration
}

// NewResponder returns a Responder pacing chunks at PaceInterval.
func NewResponder() *Responder {
	return &Responder{pace: PaceInterval}
}

// Respond validates req and returns the stream of events for it. Validation
// failures are returned as *errors.ValidationError.
func (r *Responder) Respond(req Request) (*Stream, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	return NewStream(Split(BuildContent(req.Prompt)), r.pace), nil
}

// Validate checks the prompt first, then the stream flag.
func Validate(req Request) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return apierrors.NewValidationError(apierrors.ErrEmptyPrompt, "Prompt cannot be empty")
	}
	if !req.Stream {
		return apierrors.NewValidationError(apierrors.ErrStreamDisabled, "stream parameter must be true")
	}
	return nil
}

// DecodeRequest reads a Request from r. Both fields are required.
func DecodeRequest(r io.Reader) (Request, error) {
	var wire wireRequest
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return Request{}, fmt.Errorf("%w: %w", apierrors.ErrMalformedBody, err)
	}
	if wire.Prompt == nil {
		return Request{}, fmt.Errorf("%w: prompt is required", apierrors.ErrMalformedBody)
	}
	if wire.Stream == nil {
		return Request{}, fmt.Errorf("%w: stream is required", apierrors.ErrMalformedBody)
	}
	return Request{Prompt: *wire.Prompt, Stream: *wire.Stream}, nil
}
