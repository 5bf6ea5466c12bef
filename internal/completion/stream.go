package completion

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/zhengjr9/llm-stream-sim/internal/httputil"
)

// PaceInterval is the wait before each chunk, the first one included. Fifteen
// chunks of ~2000 characters at this pace approximate 30 tokens per second.
const PaceInterval = 75 * time.Millisecond

type state int

const (
	stateStreaming state = iota
	stateDone
)

// Stream produces the framed events of one response, one at a time. It is
// owned by a single request and is not safe for concurrent use.
type Stream struct {
	chunks  []string
	next    int
	emitted int
	pace    time.Duration
	state   state
}

// NewStream returns a stream over chunks that waits pace before each one. A
// non-positive pace emits without waiting.
func NewStream(chunks []string, pace time.Duration) *Stream {
	return &Stream{chunks: chunks, pace: pace}
}

// Len returns the number of data chunks in the stream.
func (s *Stream) Len() int { return len(s.chunks) }

// Emitted returns the number of data chunks produced so far.
func (s *Stream) Emitted() int { return s.emitted }

// Next waits out the pacing interval and returns the next framed event. After
// the last chunk it returns the [DONE] sentinel once, provided at least one
// chunk was produced, and io.EOF from then on. A cancelled ctx ends the
// stream with ctx.Err().
func (s *Stream) Next(ctx context.Context) ([]byte, error) {
	if s.state == stateDone {
		return nil, io.EOF
	}

	if s.next < len(s.chunks) {
		if err := wait(ctx, s.pace); err != nil {
			s.state = stateDone
			return nil, err
		}
		event, err := httputil.FormatEvent(NewStreamChunk(s.chunks[s.next]))
		if err != nil {
			s.state = stateDone
			return nil, fmt.Errorf("frame chunk %d: %w", s.next, err)
		}
		s.next++
		s.emitted++
		return event, nil
	}

	s.state = stateDone
	if s.emitted == 0 {
		return nil, io.EOF
	}
	return httputil.DoneEvent(), nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
