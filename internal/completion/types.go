package completion

// Request is the body accepted by POST /v1/chat/completions.
type Request struct {
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// wireRequest detects absent fields, which encoding/json would otherwise
// silently zero.
type wireRequest struct {
	Prompt *string `json:"prompt"`
	Stream *bool   `json:"stream"`
}

// StreamChunk is one SSE data object in delta format.
type StreamChunk struct {
	Choices []StreamChoice `json:"choices"`
}

// StreamChoice is a single choice delta in a stream chunk.
type StreamChoice struct {
	Delta Delta `json:"delta"`
}

// Delta carries incremental content in a stream chunk. Content is a pointer
// so that an empty final delta stays representable.
type Delta struct {
	Content *string `json:"content,omitempty"`
}

// NewStreamChunk wraps text as a single-choice delta.
func NewStreamChunk(text string) StreamChunk {
	return StreamChunk{
		Choices: []StreamChoice{
			{Delta: Delta{Content: &text}},
		},
	}
}
