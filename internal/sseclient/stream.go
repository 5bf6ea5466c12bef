package sseclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zhengjr9/llm-stream-sim/internal/completion"
	"github.com/zhengjr9/llm-stream-sim/internal/httputil"
)

// Event is one decoded SSE event from the completions endpoint.
type Event struct {
	// Content is the delta text of a data chunk.
	Content string
	// Done marks the [DONE] sentinel.
	Done bool
	// Err is set when the server sent an error event or the reader failed.
	Err error
}

// wireEvent is the union of a stream chunk and an error event.
type wireEvent struct {
	Choices []completion.StreamChoice `json:"choices"`
	Error   string                    `json:"error"`
	Code    int                       `json:"code"`
}

// ReadStream reads SSE lines from a scanner and sends Events to the returned channel.
// The channel is closed when the stream ends, an error occurs, or ctx is done.
func ReadStream(ctx context.Context, scanner *bufio.Scanner) <-chan Event {
	ch := make(chan Event, 16)
	go func() {
		defer close(ch)
		send := func(ev Event) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var dataLine string
		for scanner.Scan() {
			line := scanner.Text()
			if rest, ok := strings.CutPrefix(line, "data:"); ok {
				dataLine = strings.TrimSpace(rest)
				continue
			}
			if line != "" || dataLine == "" {
				continue
			}
			// End of one SSE event block
			ev := decodeEvent(dataLine)
			dataLine = ""
			if !send(ev) || ev.Err != nil || ev.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			send(Event{Err: err})
		}
	}()
	return ch
}

func decodeEvent(data string) Event {
	if data == httputil.DoneSentinel {
		return Event{Done: true}
	}
	var we wireEvent
	if err := json.Unmarshal([]byte(data), &we); err != nil {
		return Event{Err: fmt.Errorf("decode event: %w", err)}
	}
	if we.Error != "" {
		return Event{Err: &APIError{Message: we.Error, Code: we.Code}}
	}
	var ev Event
	if len(we.Choices) > 0 && we.Choices[0].Delta.Content != nil {
		ev.Content = *we.Choices[0].Delta.Content
	}
	return ev
}
