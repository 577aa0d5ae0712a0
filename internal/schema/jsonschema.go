package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildExtractionJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. The schema is a projection, not a whitelist: unknown keys in
// the payload are ignored, only the typed fields are constrained.
func BuildExtractionJSONSchema() map[string]any {
	citation := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"page":    map[string]any{"type": "integer", "minimum": 1},
			"excerpt": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"page", "excerpt"},
	}
	citations := map[string]any{"type": "array", "items": citation}

	requirement := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"citations":   citations,
		},
		"required": []string{"title", "description"},
	}
	requirements := map[string]any{"type": "array", "items": requirement}

	deadline := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":      map[string]any{"type": "string"},
			"date_text": map[string]any{"type": "string"},
			"citations": citations,
		},
		"required": []string{"name", "date_text"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"authority":              map[string]any{"type": "string"},
			"contract_object":        map[string]any{"type": "string"},
			"deadlines":              map[string]any{"type": "array", "items": deadline},
			"required_documents":     requirements,
			"qualification_criteria": requirements,
			"penalties":              requirements,
			"open_issues":            map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
}

// ValidatePayload validates "payload" against the extraction schema.
func ValidatePayload(payload any) error {
	b, err := json.Marshal(BuildExtractionJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("extraction.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// Decode turns a normalized, validated payload into the typed model. Keys the
// model does not declare are dropped silently.
func Decode(payload map[string]any) (*BidExtraction, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var out BidExtraction
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &out, nil
}
