package extract

import (
	"regexp"
	"strings"

	"github.com/dexter-eng/bidextract/constants"
)

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// RecoverJSON locates the JSON object inside a loosely structured model
// response. A fenced code block wins; otherwise the span from the first "{"
// to the last "}" is used. Returns NoJSONFoundError when neither strategy
// finds a brace-delimited span.
func RecoverJSON(text string) (string, error) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return m[1], nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", &NoJSONFoundError{Preview: preview(text, constants.ResponsePreviewLen)}
	}
	return text[start : end+1], nil
}

func preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
