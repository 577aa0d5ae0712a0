package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsePayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestValidatePayloadAcceptsMinimalObject(t *testing.T) {
	payload := parsePayload(t, `{}`)
	assert.NoError(t, ValidatePayload(payload))
}

func TestValidatePayloadAcceptsFullObject(t *testing.T) {
	payload := parsePayload(t, `{
		"authority": "Region North",
		"contract_object": "Road maintenance",
		"deadlines": [
			{"name": "submission", "date_text": "31.01.2025 12:00", "citations": [{"page": 3, "excerpt": "Offers must arrive by"}]}
		],
		"required_documents": [
			{"title": "Company registry extract", "description": "not older than 6 months", "citations": []}
		],
		"qualification_criteria": [],
		"penalties": [],
		"open_issues": ["guarantee amount unclear"]
	}`)
	assert.NoError(t, ValidatePayload(payload))
}

func TestValidatePayloadRejectsPageZero(t *testing.T) {
	payload := parsePayload(t, `{
		"deadlines": [{"name": "submission", "date_text": "soon", "citations": [{"page": 0, "excerpt": "x"}]}]
	}`)
	assert.Error(t, ValidatePayload(payload))
}

func TestValidatePayloadRejectsEmptyExcerpt(t *testing.T) {
	payload := parsePayload(t, `{
		"penalties": [{"title": "delay", "description": "0.1% per day", "citations": [{"page": 2, "excerpt": ""}]}]
	}`)
	assert.Error(t, ValidatePayload(payload))
}

func TestValidatePayloadRejectsMissingRequiredFields(t *testing.T) {
	payload := parsePayload(t, `{
		"required_documents": [{"title": "only a title"}]
	}`)
	assert.Error(t, ValidatePayload(payload))
}

func TestValidatePayloadIgnoresUnknownKeys(t *testing.T) {
	payload := parsePayload(t, `{
		"authority": "City",
		"confidence": 0.93,
		"model_notes": {"anything": true}
	}`)
	assert.NoError(t, ValidatePayload(payload))
}

func TestDecodeDropsUnknownKeys(t *testing.T) {
	payload := parsePayload(t, `{"authority": "City", "confidence": 0.93}`)
	ex, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, "City", ex.Authority)
}

func TestNormalizePayloadCoercesWrappedStrings(t *testing.T) {
	payload := parsePayload(t, `{
		"authority": {"name": "Ministry of Works"},
		"contract_object": "plain string stays",
		"required_documents": [
			{"title": {"value": "ISO certificate"}, "description": "scope 9001", "citations": [
				{"page": 4, "excerpt": {"text": "certified to ISO 9001"}}
			]}
		],
		"open_issues": [{"issue": "lot split unclear"}, "already plain"]
	}`)

	out := NormalizePayload(payload, nil)

	assert.Equal(t, "Ministry of Works", out["authority"])
	assert.Equal(t, "plain string stays", out["contract_object"])

	docs := out["required_documents"].([]any)
	doc := docs[0].(map[string]any)
	assert.Equal(t, "ISO certificate", doc["title"])
	citation := doc["citations"].([]any)[0].(map[string]any)
	assert.Equal(t, "certified to ISO 9001", citation["excerpt"])

	issues := out["open_issues"].([]any)
	assert.Equal(t, "lot split unclear", issues[0])
	assert.Equal(t, "already plain", issues[1])
}

func TestNormalizePayloadMultiKeyMappingIsDeterministic(t *testing.T) {
	payload := parsePayload(t, `{"authority": {"b": "second", "a": "first"}}`)
	out := NormalizePayload(payload, nil)
	assert.Equal(t, "first", out["authority"])
}

func TestNormalizeThenValidateRoundTrip(t *testing.T) {
	payload := parsePayload(t, `{
		"authority": {"name": "Port Authority"},
		"deadlines": [{"name": "questions", "date_text": "by week 3", "citations": []}]
	}`)
	normalized := NormalizePayload(payload, nil)
	require.NoError(t, ValidatePayload(normalized))

	ex, err := Decode(normalized)
	require.NoError(t, err)
	assert.Equal(t, "Port Authority", ex.Authority)
	require.Len(t, ex.Deadlines, 1)
	assert.Equal(t, "questions", ex.Deadlines[0].Name)
}
