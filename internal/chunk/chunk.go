// Package chunk splits document text into bounded blocks for prompting.
package chunk

import "strings"

// Split breaks text into chunks of at most maxChars characters without ever
// splitting a line. Lines keep their trailing newline, so joining the chunks
// back together reproduces the input byte for byte. A single line longer than
// maxChars is emitted whole in its own chunk; the budget overrun is tolerated
// in that case. Empty input yields no chunks.
func Split(text string, maxChars int) []string {
	if text == "" {
		return nil
	}

	var chunks []string
	var cur strings.Builder
	for _, line := range splitLines(text) {
		if cur.Len() > 0 && cur.Len()+len(line) > maxChars {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

// splitLines cuts text after every newline, keeping the newline attached.
func splitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}
