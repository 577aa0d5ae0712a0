// Package schema defines the structured extraction model for procurement-bid
// documents and its validation rules.
package schema

// Citation points at the page and excerpt that support an extracted fact.
// Pages are 1-based.
type Citation struct {
	Page    int    `json:"page"`
	Excerpt string `json:"excerpt"`
}

// Requirement is a titled obligation found in the bid document: a required
// document, a qualification criterion or a penalty clause.
type Requirement struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Citations   []Citation `json:"citations,omitempty"`
}

// Deadline is a named date found in the bid document. The date is kept as the
// literal text from the source; no date parsing is attempted.
type Deadline struct {
	Name      string     `json:"name"`
	DateText  string     `json:"date_text"`
	Citations []Citation `json:"citations,omitempty"`
}

// BidExtraction is the validated result of one structured extraction call.
// Top-level fields are optional; the collections default to empty. OpenIssues
// carries free-text notes about information the model could not determine.
type BidExtraction struct {
	Authority      string `json:"authority,omitempty"`
	ContractObject string `json:"contract_object,omitempty"`

	Deadlines             []Deadline    `json:"deadlines,omitempty"`
	RequiredDocuments     []Requirement `json:"required_documents,omitempty"`
	QualificationCriteria []Requirement `json:"qualification_criteria,omitempty"`
	Penalties             []Requirement `json:"penalties,omitempty"`

	OpenIssues []string `json:"open_issues,omitempty"`
}
