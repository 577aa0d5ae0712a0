// Package openai implements the llm.Client contract against an
// OpenAI-compatible chat/completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dexter-eng/bidextract/internal/common"
	"github.com/dexter-eng/bidextract/internal/llm"
)

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

var _ llm.Client = (*Client)(nil)

func (c *Client) Model() string { return c.cfg.Model }

// Complete sends the prompt as a single user message and returns the first
// choice. The response id is surfaced in Raw for audit linkage.
func (c *Client) Complete(ctx context.Context, prompt string) (llm.Response, error) {
	start := time.Now()
	c.log.Info("llm.complete.start",
		"provider", "openai",
		"model", c.cfg.Model,
		"prompt_chars", len(prompt),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("llm.complete.http_error",
			"provider", "openai", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Response{}, err
	}

	var cc struct {
		ID      string `json:"id"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return llm.Response{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return llm.Response{}, fmt.Errorf("no choices in openai response")
	}

	var meta map[string]any
	_ = json.Unmarshal(raw, &meta)

	text := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.log.Info("llm.complete.ok",
		"provider", "openai",
		"request_id", cc.ID,
		"response_chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return llm.Response{Text: text, Raw: meta}, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("openai call exceeded %s: %w", c.cfg.Timeout, common.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("llm.complete.body_close_error", "error", err)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, raw)
	}
	return raw, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
