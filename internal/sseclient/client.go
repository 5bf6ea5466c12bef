package sseclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zhengjr9/llm-stream-sim/internal/completion"
)

const completionsPath = "/v1/chat/completions"

// APIError is an error event returned by the server.
type APIError struct {
	StatusCode int
	Message    string
	Code       int
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("server %d: %s (code %d)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("server error event: %s (code %d)", e.Message, e.Code)
}

// Client calls a completions endpoint and consumes its event stream.
type Client struct {
	// endpoint is the full URL of the completions endpoint. If the base URL
	// does not already end with "/v1/chat/completions" the suffix is appended.
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a Client with the given base URL (or full endpoint URL)
// and optional proxy URL. proxyURL may be empty to use the default environment proxy.
// Streams carry no client timeout; bound them with the request context.
func NewClient(baseURL string, proxyURL string) *Client {
	endpoint := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(endpoint, completionsPath) {
		endpoint += completionsPath
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Transport: transport},
	}
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string { return c.endpoint }

// Stream posts req and returns a channel of Events. A rejected request is
// returned as *APIError. The response body is closed when the channel is drained.
func (c *Client) Stream(ctx context.Context, req completion.Request) (<-chan Event, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completions request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, readAPIError(ctx, resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	ch := make(chan Event, 16)
	go func() {
		defer resp.Body.Close()
		defer close(ch)
		for ev := range ReadStream(ctx, scanner) {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// readAPIError decodes the single error event the server sends with a
// non-2xx status.
func readAPIError(ctx context.Context, resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode), Code: resp.StatusCode}
	for ev := range ReadStream(ctx, bufio.NewScanner(resp.Body)) {
		var eventErr *APIError
		if errors.As(ev.Err, &eventErr) {
			apiErr.Message = eventErr.Message
			apiErr.Code = eventErr.Code
		}
	}
	return apiErr
}

// Summary describes a consumed stream.
type Summary struct {
	Chunks     []string
	Done       bool
	FirstEvent time.Duration
	Total      time.Duration
}

// Content concatenates every delta in arrival order.
func (s *Summary) Content() string {
	return strings.Join(s.Chunks, "")
}

// Collect drains events, timing them from start. It stops at the first error,
// returning the partial summary alongside it.
func Collect(events <-chan Event, start time.Time) (*Summary, error) {
	s := &Summary{}
	for ev := range events {
		if s.FirstEvent == 0 {
			s.FirstEvent = time.Since(start)
		}
		if ev.Err != nil {
			s.Total = time.Since(start)
			return s, ev.Err
		}
		if ev.Done {
			s.Done = true
			continue
		}
		s.Chunks = append(s.Chunks, ev.Content)
	}
	s.Total = time.Since(start)
	return s, nil
}
