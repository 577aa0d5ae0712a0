package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dexter-eng/bidextract/internal/extract"
	"github.com/dexter-eng/bidextract/internal/schema"
)

// runMeta is the metadata record written next to the other run artifacts.
type runMeta struct {
	PipelineVersion string  `json:"pipeline_version"`
	Model           string  `json:"model"`
	PDFPath         string  `json:"pdf_path"`
	Pages           int     `json:"pages"`
	CharsExtracted  int     `json:"chars_extracted"`
	PromptChars     int     `json:"prompt_chars"`
	ResponseChars   int     `json:"response_chars"`
	CacheHit        bool    `json:"cache_hit"`
	RequestID       string  `json:"request_id,omitempty"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
}

// writeSummary writes the main Markdown output named after the source file.
func (p *Pipeline) writeSummary(stem, markdown string) (string, error) {
	if err := os.MkdirAll(p.cfg.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	outPath := filepath.Join(p.cfg.OutDir, stem+"_summary.md")
	if err := os.WriteFile(outPath, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	return outPath, nil
}

// writeArtifacts persists the full audit bundle of one run into a
// timestamped directory under <out>/runs/.
func (p *Pipeline) writeArtifacts(stem, extractedText string, result *extract.Result, validated *schema.BidExtraction, markdown string, meta runMeta) error {
	runDir := filepath.Join(p.cfg.OutDir, "runs",
		time.Now().UTC().Format("20060102_150405")+"_"+stem)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}

	validatedJSON, err := json.MarshalIndent(validated, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding validated extraction: %w", err)
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run metadata: %w", err)
	}

	files := map[string][]byte{
		"extracted.txt":  []byte(extractedText),
		"prompt.txt":     []byte(result.Prompt),
		"llm_raw.txt":    []byte(result.RawResponse),
		"validated.json": validatedJSON,
		"result.md":      []byte(markdown),
		"meta.json":      metaJSON,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(runDir, name), content, 0o644); err != nil {
			return fmt.Errorf("writing artifact %s: %w", name, err)
		}
	}

	p.log.Info("pipeline.artifacts_saved", "dir", runDir)
	return nil
}
