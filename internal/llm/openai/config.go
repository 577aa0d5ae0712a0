package openai

import "time"

// Config controls the OpenAI-compatible chat/completions client.
type Config struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	return c
}
