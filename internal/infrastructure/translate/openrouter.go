// Package translate calls an OpenRouter-compatible chat-completions API to
// machine-translate message text. Every failure mode (transport error,
// timeout, non-2xx status, empty completion) degrades to the original text;
// a translation problem must never fail a send. Calls are attempted exactly
// once, with an explicit timeout.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/linguachat/chat-api/internal/api/metrics"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for the upstream translation API.
type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Client struct {
	http    *http.Client
	url     string
	apiKey  string
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: timeout,
		log:     log,
	}
}

type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

// Translate returns text rendered into targetLang. On any upstream failure
// the original text comes back together with the error.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	start := time.Now()
	translated, err := c.translate(ctx, text, targetLang)
	metrics.TranslationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TranslationsTotal.WithLabelValues("fallback").Inc()
		return text, err
	}
	metrics.TranslationsTotal.WithLabelValues("ok").Inc()
	return translated, nil
}

func (c *Client) translate(ctx context.Context, text, targetLang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf("Translate the following text into %s. Do not explain, just return the translated text:\n%q", targetLang, text)
	body, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: []completionMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("translation call: unexpected status %d", resp.StatusCode)
	}

	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("translation call: empty completion")
	}

	return strings.TrimSpace(strings.Trim(strings.TrimSpace(cr.Choices[0].Message.Content), `"`)), nil
}
