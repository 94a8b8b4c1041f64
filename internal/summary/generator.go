package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.anthropic.com/v1"

// DefaultModel is a low-cost tier sufficient for one-line summaries.
const DefaultModel = "claude-3-haiku-20240307"

const maxTokens = 200

const systemPrompt = `You summarize merged pull requests. Respond with exactly one short bullet: a single sentence that begins with the author's name and states the action taken, e.g. "Dana fixed the login redirect loop" or "Sam added rate limiting to the export API". No preamble, no extra lines.`

// Generator produces one-line pull request summaries via the Anthropic API.
type Generator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// Option configures the generator.
type Option func(*Generator)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(g *Generator) {
		g.baseURL = url
	}
}

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// New creates a summary generator.
func New(apiKey string, opts ...Option) *Generator {
	g := &Generator{
		apiKey:  apiKey,
		model:   DefaultModel,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Summarize generates one attributed bullet for the given text. Failures
// are returned to the caller, which is expected to log a warning and carry
// on without a summary.
func (g *Generator) Summarize(ctx context.Context, text, attribution string) (string, error) {
	reqBody := map[string]interface{}{
		"model":      g.model,
		"max_tokens": maxTokens,
		"system":     systemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(text, attribution)},
		},
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/messages", bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, body)
	}

	var apiResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	return apiResp.Content[0].Text, nil
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func buildPrompt(text, attribution string) string {
	return fmt.Sprintf("Author: %s\n\nPull request details:\n%s", attribution, text)
}
