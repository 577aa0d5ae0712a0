// Package rules applies deterministic post-processing to a validated
// extraction. Every rule is idempotent and total: applying a rule twice
// yields the same result as once, and a rule never fails.
package rules

import (
	"log/slog"
	"strings"

	"github.com/dexter-eng/bidextract/internal/schema"
)

// Rule mutates one aspect of the extraction in place.
type Rule func(*schema.BidExtraction)

// defaultRules is the active rule set. Extend here; the extraction type
// stays unchanged.
var defaultRules = []Rule{
	trimOpenIssues,
}

// Apply runs the active rule set over the extraction and returns it.
func Apply(ex *schema.BidExtraction, logger *slog.Logger) *schema.BidExtraction {
	if logger == nil {
		logger = slog.Default()
	}
	before := len(ex.OpenIssues)
	for _, rule := range defaultRules {
		rule(ex)
	}
	if removed := before - len(ex.OpenIssues); removed > 0 {
		logger.Info("rules.applied", "open_issues_removed", removed)
	} else {
		logger.Info("rules.applied", "open_issues_removed", 0)
	}
	return ex
}

// trimOpenIssues trims surrounding whitespace from every open issue and
// drops entries that become empty.
func trimOpenIssues(ex *schema.BidExtraction) {
	kept := make([]string, 0, len(ex.OpenIssues))
	for _, issue := range ex.OpenIssues {
		if trimmed := strings.TrimSpace(issue); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	ex.OpenIssues = kept
}
