package extract

import "fmt"

// TemplateError signals that the prompt template could not be rendered,
// which in practice means it lacks the substitution placeholder.
type TemplateError struct {
	Reason string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("prompt template cannot be rendered: %s", e.Reason)
}

// NoJSONFoundError signals that neither a fenced code block nor a
// brace-delimited span could be located in the model response.
type NoJSONFoundError struct {
	Preview string
}

func (e *NoJSONFoundError) Error() string {
	return fmt.Sprintf("no JSON object found in model response, got: %s", e.Preview)
}

// MalformedJSONError signals that the recovered span failed to parse. Not
// retried; surfaces to the caller.
type MalformedJSONError struct {
	Preview string
	Err     error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed JSON in model response: %v (payload: %s)", e.Err, e.Preview)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

// SchemaValidationError signals that parsed JSON violates the extraction
// schema. PayloadPreview carries a bounded copy of the rejected payload for
// diagnosis.
type SchemaValidationError struct {
	PayloadPreview string
	Err            error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("extraction payload rejected by schema: %v", e.Err)
}

func (e *SchemaValidationError) Unwrap() error { return e.Err }
