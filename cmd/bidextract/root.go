package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dexter-eng/bidextract/internal/common"
	"github.com/dexter-eng/bidextract/internal/export"
	"github.com/dexter-eng/bidextract/internal/extract"
	"github.com/dexter-eng/bidextract/internal/llm"
	"github.com/dexter-eng/bidextract/internal/llm/ollama"
	"github.com/dexter-eng/bidextract/internal/llm/openai"
	"github.com/dexter-eng/bidextract/internal/pdf"
	"github.com/dexter-eng/bidextract/internal/pipeline"
	"github.com/dexter-eng/bidextract/internal/repository"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bidextract",
		Short:         "Structured extraction and summarization of procurement-bid PDFs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newProcessCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newCacheStatsCmd())
	root.AddCommand(newExportCmd())
	return root
}

func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func newProcessCmd() *cobra.Command {
	var promptPath, outDir string

	cmd := &cobra.Command{
		Use:   "process <pdf>",
		Short: "Extract and summarize one bid PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()
			cfg := common.LoadConfig()
			if outDir != "" {
				cfg.Storage.OutDir = outDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			template := extract.DefaultPromptTemplate
			if promptPath != "" {
				b, err := os.ReadFile(promptPath)
				if err != nil {
					return fmt.Errorf("prompt template %s: %w", promptPath, common.ErrNotFound)
				}
				template = string(b)
			}

			store, err := repository.Open(cfg.Storage.DBPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			client, err := buildClient(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := pipeline.New(store, client, pdf.NewExtractor(logger), pipeline.Config{
				OutDir:           cfg.Storage.OutDir,
				MaxCharsPerChunk: cfg.Pipeline.MaxCharsPerChunk,
				PromptTemplate:   template,
			}, logger)

			outPath, err := p.Process(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[OK] Written: %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&promptPath, "prompt", "", "path to a custom prompt template")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from OUT_DIR)")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()
			cfg := common.LoadConfig()

			store, err := repository.Open(cfg.Storage.DBPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			history, err := store.RunHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "id | status | cache_hit | prompt_chars | response_chars | model | started_at | elapsed")
			fmt.Fprintln(out, "--------------------------------------------------------------------------------------")
			for _, run := range history {
				elapsed := "-"
				if d, ok := run.Elapsed(); ok {
					elapsed = fmt.Sprintf("%.1fs", d.Seconds())
				}
				started := "-"
				if run.StartedAt != nil {
					started = run.StartedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(out, "%d | %s | %t | %d | %d | %s | %s | %s\n",
					run.ID, orDash(run.Status), run.CacheHit,
					run.PromptChars, run.ResponseChars, orDash(run.Model), started, elapsed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show")
	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cache-stats",
		Short: "Show response-cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()
			cfg := common.LoadConfig()

			store, err := repository.Open(cfg.Storage.DBPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.CacheStatistics(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total_cache_entries: %d\n", stats.TotalCacheEntries)
			fmt.Fprintf(out, "total_runs: %d\n", stats.TotalRuns)
			fmt.Fprintf(out, "cache_hits: %d\n", stats.CacheHits)
			fmt.Fprintf(out, "hit_rate: %.2f%%\n", stats.HitRate*100)
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var limit int
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export run history as an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()
			cfg := common.LoadConfig()

			store, err := repository.Open(cfg.Storage.DBPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			data, err := export.NewService(store, logger).RunHistoryXLSX(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[OK] Written: %s\n", output)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of runs to export")
	cmd.Flags().StringVar(&output, "output", "runs.xlsx", "output file path")
	return cmd
}

func buildClient(cfg *common.Config, logger *slog.Logger) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case "openai":
		return openai.NewClient(openai.Config{
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger), nil
	case "ollama":
		return ollama.NewClient(ollama.Config{
			Model:       cfg.LLM.Model,
			BaseURL:     cfg.LLM.OllamaBaseURL,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q: %w", cfg.LLM.Provider, common.ErrInvalidInput)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
