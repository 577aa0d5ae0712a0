// Package llm defines the completion contract the extraction pipeline
// depends on. Providers live in subpackages and are interchangeable.
package llm

import "context"

// Response is a provider-agnostic completion result. Raw carries optional
// provider metadata; when the provider surfaces a request identifier it is
// stored under "id".
type Response struct {
	Text string
	Raw  map[string]any
}

// RequestID returns the upstream request identifier, or "" when the provider
// did not surface one.
func (r Response) RequestID() string {
	if id, ok := r.Raw["id"].(string); ok {
		return id
	}
	return ""
}

// Client is the single capability the extractor consumes: send a prompt,
// receive text. Model identifies the backing model and participates in the
// response-cache key.
type Client interface {
	Complete(ctx context.Context, prompt string) (Response, error)
	Model() string
}
