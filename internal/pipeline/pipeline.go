// Package pipeline wires the end-to-end flow from a PDF path to the rendered
// Markdown summary and the persisted run record.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dexter-eng/bidextract/constants"
	"github.com/dexter-eng/bidextract/internal/chunk"
	"github.com/dexter-eng/bidextract/internal/common"
	"github.com/dexter-eng/bidextract/internal/entity"
	"github.com/dexter-eng/bidextract/internal/extract"
	"github.com/dexter-eng/bidextract/internal/llm"
	"github.com/dexter-eng/bidextract/internal/render"
	"github.com/dexter-eng/bidextract/internal/repository"
	"github.com/dexter-eng/bidextract/internal/rules"
)

// TextExtractor supplies page-delimited text for a source file. The PDF
// adapter implements it; tests substitute a stub.
type TextExtractor interface {
	ExtractText(path string) (text string, pages int, err error)
}

// Config holds per-pipeline settings.
type Config struct {
	OutDir           string
	MaxCharsPerChunk int
	PromptTemplate   string
}

type Pipeline struct {
	store     *repository.Store
	client    llm.Client
	texts     TextExtractor
	extractor *extract.Extractor
	cfg       Config
	log       *slog.Logger
}

func New(store *repository.Store, client llm.Client, texts TextExtractor, cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:     store,
		client:    client,
		texts:     texts,
		extractor: extract.NewExtractor(client, store, cfg.PromptTemplate, logger),
		cfg:       cfg,
		log:       logger,
	}
}

// Process runs the full pipeline for one PDF and returns the path of the
// written Markdown summary. The run row is created before any fallible work
// and is always finished with a terminal status: on failure the error is
// recorded on the run and returned to the caller. No partial summary file is
// written on failure.
func (p *Pipeline) Process(ctx context.Context, pdfPath string) (outPath string, err error) {
	p.log.Info("pipeline.start", "version", constants.PipelineVersion, "path", pdfPath)
	start := time.Now()

	fingerprint := common.FileSHA256(pdfPath)
	docID, err := p.store.GetOrCreateDocument(ctx, pdfPath, fingerprint, 0, 0)
	if err != nil {
		return "", err
	}
	runID, err := p.store.StartRun(ctx, docID, p.client.Model(), constants.PipelineVersion)
	if err != nil {
		return "", err
	}

	defer func() {
		status := entity.RunStatusSuccess
		msg := ""
		if err != nil {
			status = entity.RunStatusError
			msg = err.Error()
		}
		if ferr := p.store.FinishRun(ctx, runID, status, msg); ferr != nil {
			p.log.Error("pipeline.finish_run_failed", "run_id", runID, "error", ferr)
			if err == nil {
				err = ferr
			}
		}
	}()

	text, pages, err := p.texts.ExtractText(pdfPath)
	if err != nil {
		return "", err
	}

	chunks := chunk.Split(text, p.cfg.MaxCharsPerChunk)
	used := len(chunks)
	if used > constants.MaxMergedChunks {
		used = constants.MaxMergedChunks
	}
	merged := strings.Join(chunks[:used], constants.ChunkSeparator)
	p.log.Info("pipeline.chunked",
		"chunks_total", len(chunks),
		"chunks_used", used,
		"merged_chars", len(merged),
	)

	result, err := p.extractor.Extract(ctx, merged)
	if err != nil {
		return "", err
	}
	if err = p.store.RecordRunMetrics(ctx, runID,
		len(result.Prompt), len(result.RawResponse), result.CacheHit, result.RequestID); err != nil {
		return "", err
	}

	validated := rules.Apply(result.Extraction, p.log)
	markdown := render.Markdown(validated)

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	outPath, err = p.writeSummary(stem, markdown)
	if err != nil {
		return "", err
	}

	elapsed := time.Since(start)
	meta := runMeta{
		PipelineVersion: constants.PipelineVersion,
		Model:           p.client.Model(),
		PDFPath:         pdfPath,
		Pages:           pages,
		CharsExtracted:  len(text),
		PromptChars:     len(result.Prompt),
		ResponseChars:   len(result.RawResponse),
		CacheHit:        result.CacheHit,
		RequestID:       result.RequestID,
		ElapsedSeconds:  roundSeconds(elapsed),
	}
	if err = p.writeArtifacts(stem, text, result, validated, markdown, meta); err != nil {
		return "", err
	}

	p.log.Info("pipeline.finished",
		"run_id", runID,
		"out", outPath,
		"cache_hit", result.CacheHit,
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return outPath, nil
}

func roundSeconds(d time.Duration) float64 {
	return float64(d.Milliseconds()) / 1000
}
