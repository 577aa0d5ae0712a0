// Package ollama implements the llm.Client contract against a local Ollama
// server's /api/generate endpoint.
package ollama

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

	"github.com/google/uuid"

	"github.com/dexter-eng/bidextract/internal/common"
	"github.com/dexter-eng/bidextract/internal/llm"
)

// Config controls the local model client. Seed and NumPredict are passed
// through to Ollama's generate options.
type Config struct {
	Model       string
	BaseURL     string
	Temperature float32
	NumCtx      int
	NumPredict  int
	Timeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "http://127.0.0.1:11434"
	}
	if c.NumCtx <= 0 {
		c.NumCtx = 8192
	}
	if c.NumPredict <= 0 {
		c.NumPredict = 2048
	}
	if c.Timeout <= 0 {
		c.Timeout = 300 * time.Second
	}
	return c
}

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

// Complete posts a non-chat generate request. Ollama responses carry no
// upstream id, so the client mints one for audit linkage.
func (c *Client) Complete(ctx context.Context, prompt string) (llm.Response, error) {
	requestID := "ollama_" + uuid.New().String()
	start := time.Now()
	c.log.Info("llm.complete.start",
		"provider", "ollama",
		"model", c.cfg.Model,
		"request_id", requestID,
		"prompt_chars", len(prompt),
	)

	body := map[string]any{
		"model":  c.cfg.Model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": c.cfg.Temperature,
			"num_ctx":     c.cfg.NumCtx,
			"num_predict": c.cfg.NumPredict,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return llm.Response{}, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return llm.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return llm.Response{}, fmt.Errorf("ollama call exceeded %s: %w", c.cfg.Timeout, common.ErrUpstreamTimeout)
		}
		return llm.Response{}, fmt.Errorf("ollama http error: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("llm.complete.body_close_error", "error", err)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return llm.Response{}, fmt.Errorf("ollama status %d: %s", resp.StatusCode, raw)
	}

	var gr struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(raw, &gr); err != nil {
		return llm.Response{}, fmt.Errorf("decode ollama response: %w", err)
	}

	text := strings.TrimSpace(gr.Response)
	elapsed := time.Since(start)
	c.log.Info("llm.complete.ok",
		"provider", "ollama",
		"request_id", requestID,
		"response_chars", len(text),
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return llm.Response{
		Text: text,
		Raw: map[string]any{
			"id":        requestID,
			"provider":  "ollama",
			"model":     c.cfg.Model,
			"elapsed_s": elapsed.Seconds(),
		},
	}, nil
}

// Ping reports whether the Ollama server is reachable.
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.cfg.BaseURL, "/")+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
