package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteParsesFirstChoice(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"id": "chatcmpl-42",
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  {\"authority\": \"City\"}  "}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{Model: "gpt-test", APIKey: "sk-test", BaseURL: srv.URL + "/v1"}, nil)

	resp, err := c.Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"authority": "City"}`, resp.Text)
	assert.Equal(t, "chatcmpl-42", resp.RequestID())

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-test", gotBody["model"])
	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "the prompt", msg["content"])
}

func TestCompleteNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{Model: "gpt-test", BaseURL: srv.URL}, nil)
	_, err := c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}})
	}))
	defer srv.Close()

	c := NewClient(Config{Model: "gpt-test", BaseURL: srv.URL}, nil)
	_, err := c.Complete(context.Background(), "p")
	assert.ErrorContains(t, err, "no choices")
}

func TestCompleteContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Config{Model: "gpt-test", BaseURL: srv.URL}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, "p")
	require.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Model: "gpt-test"}.withDefaults()
	assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.Timeout)
}
