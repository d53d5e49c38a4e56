// Package llm wraps outbound calls to an OpenAI-compatible chat completions
// API: free-form chat, single-image analysis and the two vision extraction
// calls used by the bookshelf scanner.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"book-scanner/backend/internal/apierr"
	"book-scanner/backend/internal/imaging"
)

const (
	// DefaultBaseURL is the OpenAI API root used when none is configured.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "gpt-4o-mini"

	// ChatTemperature and ChatMaxTokens bound the free-form chat call.
	ChatTemperature = 0.7
	ChatMaxTokens   = 2000

	// AnalyzeMaxTokens bounds the single-image analysis call.
	AnalyzeMaxTokens = 500

	// ScanMaxTokens and ScanTimeout bound the book-list extraction call.
	ScanMaxTokens = 1000
	ScanTimeout   = 120 * time.Second

	// TitlesTemperature, TitlesMaxTokens and TitlesTimeout bound the
	// title-only extraction call. The lower temperature keeps the title
	// list deterministic.
	TitlesTemperature = 0.3
	TitlesMaxTokens   = 500
	TitlesTimeout     = 60 * time.Second
)

// Config holds the shared settings for the completion API. It is built
// once at startup and passed in explicitly so tests can point the client
// at a fake endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client is the gateway to the completion API.
type Client struct {
	cfg   Config
	httpc *http.Client
}

// NewClient creates a Client, filling in defaults for an empty base URL or
// model.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{},
	}
}

// ChatCompletion sends a user message with an optional system instruction
// and returns the completion text verbatim.
func (c *Client) ChatCompletion(ctx context.Context, message, systemPrompt string) (string, error) {
	var messages []map[string]any
	if systemPrompt != "" {
		messages = append(messages, map[string]any{"role": "system", "content": systemPrompt})
	}
	messages = append(messages, map[string]any{"role": "user", "content": message})

	return c.completion(ctx, messages, ChatTemperature, ChatMaxTokens, 0)
}

// AnalyzeImage sends image bytes together with a free-form prompt and
// returns the completion text verbatim. The image is assumed to be
// normalized already.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte, prompt string) (string, error) {
	messages := []map[string]any{
		visionTurn(prompt, image),
	}
	return c.completion(ctx, messages, ChatTemperature, AnalyzeMaxTokens, 0)
}

// ScanBookshelf runs the book-list extraction call: the image is
// normalized, sent with the bookshelf-analyzer prompts, and the raw output
// text is returned for the extract package to parse.
func (c *Client) ScanBookshelf(ctx context.Context, image []byte) (string, error) {
	messages := []map[string]any{
		{"role": "system", "content": ScanSystemPrompt},
		visionTurn(ScanUserPrompt, imaging.Normalize(image)),
	}
	return c.completion(ctx, messages, ChatTemperature, ScanMaxTokens, ScanTimeout)
}

// ExtractTitles runs the title-only extraction call and returns the raw
// output text.
func (c *Client) ExtractTitles(ctx context.Context, image []byte) (string, error) {
	messages := []map[string]any{
		{"role": "system", "content": TitlesSystemPrompt},
		visionTurn(TitlesUserPrompt, imaging.Normalize(image)),
	}
	return c.completion(ctx, messages, TitlesTemperature, TitlesMaxTokens, TitlesTimeout)
}

// visionTurn builds a single user turn combining prompt text with an
// embedded base64 image reference.
func visionTurn(prompt string, image []byte) map[string]any {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	return map[string]any{
		"role": "user",
		"content": []map[string]any{
			{"type": "text", "text": prompt},
			{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
		},
	}
}

// completion performs a single chat completions call. A zero timeout keeps
// the caller's context as-is.
func (c *Client) completion(ctx context.Context, messages []map[string]any, temperature float64, maxTokens int, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	body, err := json.Marshal(map[string]any{
		"model":       c.cfg.Model,
		"messages":    messages,
		"temperature": temperature,
		"max_tokens":  maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", apierr.Timeout("model request timed out")
		}
		return "", apierr.Transport(0, "model request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", apierr.Transport(resp.StatusCode, "%s", upstreamMessage(resp.StatusCode, raw))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apierr.Malformed("failed to decode completion response: %v", err)
	}
	if len(out.Choices) == 0 {
		return "", apierr.Malformed("model returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// upstreamMessage pulls the error message out of an API error body,
// falling back to the raw body or the status code.
func upstreamMessage(status int, body []byte) string {
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	if len(body) > 0 {
		const max = 300
		s := string(body)
		if len(s) > max {
			s = s[:max] + "..."
		}
		return s
	}
	return fmt.Sprintf("model API returned status %d", status)
}
