package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteParsesGenerateResponse(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"response": "\n{\"authority\": \"City\"}\n", "done": true})
	}))
	defer srv.Close()

	c := NewClient(Config{Model: "llama3", BaseURL: srv.URL}, nil)

	resp, err := c.Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"authority": "City"}`, resp.Text)
	assert.True(t, strings.HasPrefix(resp.RequestID(), "ollama_"))

	assert.Equal(t, "llama3", gotBody["model"])
	assert.Equal(t, false, gotBody["stream"])
	assert.Equal(t, "the prompt", gotBody["prompt"])
	options := gotBody["options"].(map[string]any)
	assert.EqualValues(t, 8192, options["num_ctx"])
}

func TestCompleteMintsUniqueRequestIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"response": "ok", "done": true})
	}))
	defer srv.Close()

	c := NewClient(Config{Model: "llama3", BaseURL: srv.URL}, nil)

	first, err := c.Complete(context.Background(), "p")
	require.NoError(t, err)
	second, err := c.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.NotEqual(t, first.RequestID(), second.RequestID())
}

func TestCompleteNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{Model: "missing", BaseURL: srv.URL}, nil)
	_, err := c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{Model: "llama3", BaseURL: srv.URL}, nil)
	assert.True(t, c.Ping(context.Background()))

	srv.Close()
	assert.False(t, c.Ping(context.Background()))
}
