// Command streamcheck sends one prompt to a completions endpoint, echoes the
// streamed text and reports delivery statistics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zhengjr9/llm-stream-sim/internal/completion"
	"github.com/zhengjr9/llm-stream-sim/internal/logging"
	"github.com/zhengjr9/llm-stream-sim/internal/sseclient"
)

// charsPerToken is the rough ratio used to estimate throughput.
const charsPerToken = 4

func main() {
	var (
		baseURL  = flag.String("url", "http://127.0.0.1:8080", "Server base URL or full completions endpoint")
		proxyURL = flag.String("proxy", "", "HTTP proxy URL")
		prompt   = flag.String("prompt", "Explain how streaming APIs improve user experience", "Prompt to send")
		stream   = flag.Bool("stream", true, "Value of the stream field")
		timeout  = flag.Duration("timeout", 30*time.Second, "Overall request timeout")
		quiet    = flag.Bool("quiet", false, "Do not echo streamed content")
		logLevel = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()
	slog.SetDefault(logging.New(*logLevel, "text", os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client := sseclient.NewClient(*baseURL, *proxyURL)
	if err := run(ctx, client, completion.Request{Prompt: *prompt, Stream: *stream}, *quiet, os.Stdout); err != nil {
		slog.Error("stream check failed", "endpoint", client.Endpoint(), "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *sseclient.Client, req completion.Request, quiet bool, out io.Writer) error {
	start := time.Now()
	events, err := client.Stream(ctx, req)
	if err != nil {
		var apiErr *sseclient.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(out, "rejected: HTTP %d, code %d: %s\n", apiErr.StatusCode, apiErr.Code, apiErr.Message)
		}
		return err
	}

	if !quiet {
		events = echo(events, out)
	}
	summary, err := sseclient.Collect(events, start)
	if err != nil {
		return err
	}
	printSummary(out, summary)
	if !summary.Done {
		return errors.New("stream ended without [DONE]")
	}
	return nil
}

// echo copies each delta to out as it arrives.
func echo(in <-chan sseclient.Event, out io.Writer) <-chan sseclient.Event {
	ch := make(chan sseclient.Event)
	go func() {
		defer close(ch)
		for ev := range in {
			if ev.Content != "" {
				fmt.Fprint(out, ev.Content)
			}
			ch <- ev
		}
	}()
	return ch
}

func printSummary(out io.Writer, s *sseclient.Summary) {
	chars := len([]rune(s.Content()))
	var tps float64
	if secs := s.Total.Seconds(); secs > 0 {
		tps = float64(chars) / charsPerToken / secs
	}
	fmt.Fprintf(out, "\n\nchunks:            %d\n", len(s.Chunks))
	fmt.Fprintf(out, "characters:        %d\n", chars)
	fmt.Fprintf(out, "first event after: %s\n", s.FirstEvent.Round(time.Millisecond))
	fmt.Fprintf(out, "total time:        %s\n", s.Total.Round(time.Millisecond))
	fmt.Fprintf(out, "approx tokens/sec: %.1f\n", tps)
	fmt.Fprintf(out, "completed:         %t\n", s.Done)
}
