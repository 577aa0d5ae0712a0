package constants

// PipelineVersion tags every run row so historical runs can be compared
// across prompt or pipeline changes.
const PipelineVersion = "0.2"

// MaxMergedChunks bounds how many leading chunks are concatenated into the
// extraction prompt. Trailing content of very large documents is dropped;
// this is a known scope limitation, not an accident.
const MaxMergedChunks = 4

// ChunkSeparator joins the merged chunks before prompt substitution.
const ChunkSeparator = "\n\n"

// PageMarkerFormat is the per-page delimiter emitted by the PDF text
// adapter. Page numbers are 1-based.
const PageMarkerFormat = "\n\n=== PAGE %d ===\n"

// PromptPlaceholder is the single substitution point in prompt templates.
const PromptPlaceholder = "{{TEXT}}"

// ResponsePreviewLen bounds raw-response previews attached to extraction
// errors so logs and error chains stay readable.
const ResponsePreviewLen = 500

// PayloadPreviewLen bounds the rejected-payload preview attached to schema
// validation errors.
const PayloadPreviewLen = 1000
