package extract

import _ "embed"

// DefaultPromptTemplate is the built-in extraction prompt. The CLI can
// substitute a custom template file.
//
//go:embed prompt.md
var DefaultPromptTemplate string
