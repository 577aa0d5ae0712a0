// Package render formats a validated extraction as a Markdown summary.
package render

import (
	"fmt"
	"strings"

	"github.com/dexter-eng/bidextract/internal/schema"
)

const (
	maxCitationsPerItem = 3
	maxExcerptLen       = 200
	emptyField          = "—"
)

// Markdown renders the bid summary. Sections appear in a fixed order; empty
// collections render an explicit "nothing found" line so the reader knows the
// section was not skipped.
func Markdown(ex *schema.BidExtraction) string {
	var b strings.Builder

	b.WriteString("# Bid Summary\n\n")
	fmt.Fprintf(&b, "**Authority:** %s  \n", orDash(ex.Authority))
	fmt.Fprintf(&b, "**Contract object:** %s\n\n", orDash(ex.ContractObject))

	section(&b, "Deadlines", deadlineItems(ex.Deadlines))
	section(&b, "Required documents", requirementItems(ex.RequiredDocuments))
	section(&b, "Qualification criteria", requirementItems(ex.QualificationCriteria))
	section(&b, "Penalties", requirementItems(ex.Penalties))

	b.WriteString("## Open issues\n\n")
	if len(ex.OpenIssues) == 0 {
		b.WriteString("_None._\n")
	} else {
		for _, issue := range ex.OpenIssues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	}

	return b.String()
}

type item struct {
	label     string
	detail    string
	citations []schema.Citation
}

func deadlineItems(deadlines []schema.Deadline) []item {
	items := make([]item, 0, len(deadlines))
	for _, d := range deadlines {
		items = append(items, item{label: d.Name, detail: d.DateText, citations: d.Citations})
	}
	return items
}

func requirementItems(reqs []schema.Requirement) []item {
	items := make([]item, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, item{label: r.Title, detail: r.Description, citations: r.Citations})
	}
	return items
}

func section(b *strings.Builder, title string, items []item) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(items) == 0 {
		b.WriteString("_Nothing found._\n\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- **%s**: %s\n", it.label, it.detail)
		citations := it.citations
		if len(citations) > maxCitationsPerItem {
			citations = citations[:maxCitationsPerItem]
		}
		for _, c := range citations {
			fmt.Fprintf(b, "  - (p.%d) “%s”\n", c.Page, truncate(strings.TrimSpace(c.Excerpt), maxExcerptLen))
		}
	}
	b.WriteString("\n")
}

func orDash(s string) string {
	if s == "" {
		return emptyField
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
