// ABOUTME: Client for the Gemini generateContent API used to improve task wording
// ABOUTME: Returns ErrUnavailable when unconfigured or unreachable, never silently degrades

package suggest

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

	"github.com/taskyhq/tasky-server/internal/config"
)

// ErrUnavailable is returned when the suggestion service is not configured
// or cannot be reached. Callers surface it distinctly from auth errors.
var ErrUnavailable = errors.New("suggestion service unavailable")

const defaultEndpoint = "https://generativelanguage.googleapis.com"

// Suggestion is the model's rewritten task wording
type Suggestion struct {
	SuggestedTitle       string   `json:"suggestedTitle"`
	SuggestedDescription string   `json:"suggestedDescription"`
	Improvements         []string `json:"improvements"`
}

// Client calls the generateContent endpoint of the Gemini REST API
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a suggestion client from config. The client is always
// constructed; Available reports whether an API key was provided.
func NewClient(cfg config.SuggestConfig, logger *slog.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With("component", "suggest"),
	}
}

// Available reports whether the client has an API key configured
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// generateContent request/response types, limited to the fields we use
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Improve asks the model to rewrite the task's title and description.
// Returns ErrUnavailable when the service is not configured or unreachable.
func (c *Client) Improve(ctx context.Context, name, description string) (*Suggestion, error) {
	if !c.Available() {
		return nil, fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(name, description)}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("suggestion request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("suggestion request rejected", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: upstream status %d", ErrUnavailable, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("model returned no candidates")
	}

	return parseSuggestion(genResp.Candidates[0].Content.Parts[0].Text)
}

// buildPrompt asks for a strict-JSON rewrite of the task wording
func buildPrompt(name, description string) string {
	if description == "" {
		description = "No description"
	}
	return fmt.Sprintf(`You are an assistant specialized in task management.
Review the following task title and description and suggest improvements to make them clearer, more objective, and more actionable.

Current title: %q
Current description: %q

Respond ONLY with JSON in the following format, with no additional text before or after:
{
  "suggestedTitle": "improved title here",
  "suggestedDescription": "improved description here",
  "improvements": ["improvement 1", "improvement 2", "improvement 3"]
}

The improvements should be specific and explain what was changed and why.`, name, description)
}

// parseSuggestion decodes the model output, tolerating markdown code fences
// around the JSON payload.
func parseSuggestion(text string) (*Suggestion, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var s Suggestion
	if err := json.Unmarshal([]byte(cleaned), &s); err != nil {
		return nil, fmt.Errorf("parsing model output: %w", err)
	}
	if s.SuggestedTitle == "" {
		return nil, errors.New("model output missing suggestedTitle")
	}
	return &s, nil
}
