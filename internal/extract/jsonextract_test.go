package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverJSONFencedBlock(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"authority\": \"City\"}\n```\nDone."
	got, err := RecoverJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"authority": "City"}`, got)
}

func TestRecoverJSONFencedBlockWithoutLanguage(t *testing.T) {
	raw := "```\n{\"a\": 1}\n```"
	got, err := RecoverJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, got)
}

func TestRecoverJSONBareObjectInProse(t *testing.T) {
	raw := "Sure! The extraction is {\"authority\": \"City\", \"open_issues\": []} as requested."
	got, err := RecoverJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"authority": "City", "open_issues": []}`, got)
}

func TestRecoverJSONFencedWinsOverSurroundingBraces(t *testing.T) {
	raw := "ignore {this} span\n```json\n{\"kept\": true}\n```\nand {that} one"
	got, err := RecoverJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"kept": true}`, got)
}

func TestRecoverJSONNoObject(t *testing.T) {
	_, err := RecoverJSON("I could not find anything relevant in the document.")
	var nf *NoJSONFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Preview, "could not find")
}

func TestRecoverJSONReversedBraces(t *testing.T) {
	_, err := RecoverJSON("} nothing opens before this {")
	var nf *NoJSONFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestRecoverJSONPreviewIsBounded(t *testing.T) {
	_, err := RecoverJSON(strings.Repeat("no json here ", 100))
	var nf *NoJSONFoundError
	require.ErrorAs(t, err, &nf)
	assert.LessOrEqual(t, len(nf.Preview), 503)
	assert.True(t, strings.HasSuffix(nf.Preview, "..."))
}
