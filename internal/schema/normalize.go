package schema

import (
	"log/slog"
	"sort"
)

// NormalizePayload applies tolerant coercions to the raw parsed payload
// before validation. Models occasionally wrap a plain string in a single-key
// mapping ({"title": "X"} where "X" was expected); the first string value
// found in such a mapping is recovered and used as the field value. Only the
// string-typed fields of the extraction model are touched; everything else is
// passed through unchanged.
func NormalizePayload(payload map[string]any, logger *slog.Logger) map[string]any {
	if logger == nil {
		logger = slog.Default()
	}

	var coerced []string
	coerce := func(m map[string]any, key, path string) {
		v, ok := m[key]
		if !ok {
			return
		}
		if s, ok := firstStringValue(v); ok {
			m[key] = s
			coerced = append(coerced, path)
		}
	}

	coerce(payload, "authority", "authority")
	coerce(payload, "contract_object", "contract_object")

	for _, key := range []string{"required_documents", "qualification_criteria", "penalties"} {
		for _, item := range objectItems(payload[key]) {
			coerce(item, "title", key+".title")
			coerce(item, "description", key+".description")
			normalizeCitations(item, key, coerce)
		}
	}
	for _, item := range objectItems(payload["deadlines"]) {
		coerce(item, "name", "deadlines.name")
		coerce(item, "date_text", "deadlines.date_text")
		normalizeCitations(item, "deadlines", coerce)
	}

	if issues, ok := payload["open_issues"].([]any); ok {
		for i, v := range issues {
			if s, ok := firstStringValue(v); ok {
				issues[i] = s
				coerced = append(coerced, "open_issues")
			}
		}
	}

	if len(coerced) > 0 {
		logger.Warn("schema.normalize.coerced_fields", "fields", coerced)
	}
	return payload
}

func normalizeCitations(item map[string]any, path string, coerce func(map[string]any, string, string)) {
	for _, c := range objectItems(item["citations"]) {
		coerce(c, "excerpt", path+".citations.excerpt")
	}
}

// objectItems returns the object elements of a JSON array value, skipping
// anything that is not an object.
func objectItems(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var items []map[string]any
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

// firstStringValue recovers a string from a mapping that should have been a
// bare string. Keys are visited in sorted order so the recovery is
// deterministic even for multi-key mappings.
func firstStringValue(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s, true
		}
	}
	return "", false
}
