package completion

import "fmt"

// MinChunks is the lower bound on pieces produced by Split.
const MinChunks = 15

// BuildContent returns the body streamed back for prompt.
func BuildContent(prompt string) string {
	return fmt.Sprintf(promptPreamble, prompt) + ExtendedText
}

// Split partitions body into pieces of ceil(n/MinChunks) runes for a body of
// n runes. Bodies of 210 runes or more yield exactly MinChunks pieces, the last
// possibly shorter; shorter bodies yield fewer. Boundaries ignore words and tokens.
func Split(body string) []string {
	runes := []rune(body)
	if len(runes) == 0 {
		return nil
	}
	size := (len(runes) + MinChunks - 1) / MinChunks

	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
