package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dexter-eng/bidextract/internal/schema"
)

func TestApplyTrimsAndDropsEmptyOpenIssues(t *testing.T) {
	ex := &schema.BidExtraction{
		OpenIssues: []string{"  a  ", "", "  ", "b"},
	}
	out := Apply(ex, nil)
	assert.Equal(t, []string{"a", "b"}, out.OpenIssues)
}

func TestApplyAllEmptyBecomesNil(t *testing.T) {
	ex := &schema.BidExtraction{OpenIssues: []string{"", "   ", "\t\n"}}
	out := Apply(ex, nil)
	assert.Nil(t, out.OpenIssues)
}

func TestApplyIsIdempotent(t *testing.T) {
	ex := &schema.BidExtraction{OpenIssues: []string{" check annex B ", "x"}}
	once := Apply(ex, nil)
	first := append([]string(nil), once.OpenIssues...)
	twice := Apply(once, nil)
	assert.Equal(t, first, twice.OpenIssues)
}

func TestApplyLeavesOtherFieldsAlone(t *testing.T) {
	ex := &schema.BidExtraction{
		Authority:  "City of Example",
		OpenIssues: []string{" trailing "},
		Deadlines: []schema.Deadline{
			{Name: "submission", DateText: "2025-01-31"},
		},
	}
	out := Apply(ex, nil)
	assert.Equal(t, "City of Example", out.Authority)
	assert.Len(t, out.Deadlines, 1)
	assert.Equal(t, []string{"trailing"}, out.OpenIssues)
}
