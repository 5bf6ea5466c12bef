package completion

// ExtendedText is the fixed passage appended to every generated body.
const ExtendedText = `Streaming completion endpoints change how people experience generated text. Instead of waiting for an entire answer to be assembled on the server, the client receives small fragments the moment they exist, which keeps the time to first token low and gives the reader something to look at almost immediately. For interactive tools that first visible fragment matters more than total latency.

This service imitates such an endpoint without running a model. It builds a fixed body, cuts it into a small number of fragments and releases them one at a time on a steady cadence, so clients, proxies and dashboards can be exercised against realistic timing.

Several details make the simulation faithful to real providers:
1. Server-Sent Events framing. Every fragment is written as a data line carrying a JSON delta and terminated by a blank line, and the stream ends with a sentinel marker.
2. Incremental writes. Each event is flushed to the connection as soon as it is ready, so nothing waits for the full response to be produced.
3. Intermediary hints. Cache and proxy buffering are disabled through response headers, which keeps reverse proxies from holding events back until the body completes.
4. Consistent errors. Validation failures use the same event-stream content type and framing as successful responses, so one parser on the client handles both paths.
5. Cheap concurrency. Each request lives on its own goroutine and waiting between fragments parks only that goroutine, leaving the server free to accept other connections.

Because fragment boundaries depend only on the prompt, repeated requests produce identical partitions, which makes the endpoint useful for regression tests of streaming clients. Concatenating every delta in arrival order reproduces the original body exactly, character for character, including any multi-byte text supplied in the prompt. Boundaries fall on character positions rather than word or token edges, so a fragment may end halfway through a word; well behaved clients simply append each delta to what they already hold. Pair it with a load generator to see how a gateway behaves under many slow, long lived responses.`

const promptPreamble = "Regarding your prompt '%s':\n\n"
