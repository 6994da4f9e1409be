// Package llm speaks to an OpenAI-compatible chat-completions endpoint. The
// rest of the system sees only the Generator interface and treats every
// failure as a cue to degrade, never as a hard error.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message is one role-tagged entry in a generation request
type Message struct {
	Role    string `json:"role"` // system, user
	Content string `json:"content"`
}

// Generator produces free-form text from a role-tagged message list
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// Client calls an OpenAI-compatible /chat/completions endpoint
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewClient creates a generation client. An empty baseURL produces a client
// whose calls always fail, which downstream code degrades around.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an endpoint has been set
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Generate sends the messages and returns the model's text. Any transport
// failure, non-2xx status, or empty result is an error.
func (c *Client) Generate(ctx context.Context, messages []Message) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("generation service not configured")
	}

	payload, err := json.Marshal(map[string]any{
		"model":    c.model,
		"messages": messages,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("generation error %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("generation service returned no choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("generation service returned empty text")
	}
	return text, nil
}
