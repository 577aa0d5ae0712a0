// Package extract turns raw document text into a validated BidExtraction via
// an LLM call, with a persistent response cache in front of the provider.
package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/dexter-eng/bidextract/constants"
	"github.com/dexter-eng/bidextract/internal/common"
	"github.com/dexter-eng/bidextract/internal/llm"
	"github.com/dexter-eng/bidextract/internal/schema"
)

// ResponseCache is the narrow port the extractor needs from storage. Put is
// idempotent: the first write for a key wins and later writes are no-ops, so
// a cached answer never silently changes.
type ResponseCache interface {
	Get(ctx context.Context, promptHash, model string) (string, bool, error)
	Put(ctx context.Context, promptHash, model, responseText string, promptChars, responseChars int) error
}

// Result is everything one extraction call produced, returned explicitly so
// the orchestrator can persist run artifacts without out-of-band state.
type Result struct {
	Extraction  *schema.BidExtraction
	Prompt      string
	RawResponse string
	CacheHit    bool
	RequestID   string
}

type Extractor struct {
	client   llm.Client
	cache    ResponseCache
	template string
	log      *slog.Logger
}

func NewExtractor(client llm.Client, cache ResponseCache, promptTemplate string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		client:   client,
		cache:    cache,
		template: promptTemplate,
		log:      logger,
	}
}

// Extract renders the prompt, consults the cache, calls the model at most
// once, and validates the response against the extraction schema.
func (e *Extractor) Extract(ctx context.Context, text string) (*Result, error) {
	start := time.Now()

	if !strings.Contains(e.template, constants.PromptPlaceholder) {
		return nil, &TemplateError{Reason: "missing " + constants.PromptPlaceholder + " placeholder"}
	}
	prompt := strings.ReplaceAll(e.template, constants.PromptPlaceholder, text)
	promptHash := common.SHA256Hex(prompt)
	model := e.client.Model()

	e.log.Info("extract.start",
		"model", model,
		"prompt_chars", len(prompt),
		"prompt_hash", promptHash[:12],
	)

	result := &Result{Prompt: prompt}

	cached, hit, err := e.cache.Get(ctx, promptHash, model)
	if err != nil {
		return nil, common.WrapError(err, "cache lookup")
	}
	if hit {
		e.log.Info("extract.cache_hit", "prompt_hash", promptHash[:12])
		result.RawResponse = cached
		result.CacheHit = true
	} else {
		e.log.Info("extract.cache_miss", "prompt_hash", promptHash[:12])
		resp, err := e.client.Complete(ctx, prompt)
		if err != nil {
			return nil, err
		}
		respText := strings.TrimSpace(resp.Text)
		if err := e.cache.Put(ctx, promptHash, model, respText, len(prompt), len(respText)); err != nil {
			return nil, common.WrapError(err, "cache store")
		}
		result.RawResponse = respText
		result.RequestID = resp.RequestID()
	}

	extraction, err := e.parse(result.RawResponse)
	if err != nil {
		return nil, err
	}
	result.Extraction = extraction

	e.log.Info("extract.ok",
		"authority", extraction.Authority,
		"deadlines", len(extraction.Deadlines),
		"required_documents", len(extraction.RequiredDocuments),
		"open_issues", len(extraction.OpenIssues),
		"cache_hit", result.CacheHit,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// parse recovers the JSON object from the raw response, applies the tolerant
// coercion pre-pass, validates against the schema and decodes the typed model.
func (e *Extractor) parse(raw string) (*schema.BidExtraction, error) {
	jsonStr, err := RecoverJSON(raw)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, &MalformedJSONError{
			Preview: preview(jsonStr, constants.ResponsePreviewLen),
			Err:     err,
		}
	}

	payload = schema.NormalizePayload(payload, e.log)

	if err := schema.ValidatePayload(payload); err != nil {
		rejected, _ := json.Marshal(payload)
		e.log.Error("extract.schema_validation_failed", "error", err)
		return nil, &SchemaValidationError{
			PayloadPreview: preview(string(rejected), constants.PayloadPreviewLen),
			Err:            err,
		}
	}

	return schema.Decode(payload)
}
