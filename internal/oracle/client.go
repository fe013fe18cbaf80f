package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultAPIURL      = "https://api.deepseek.com/v1/chat/completions"
	defaultModel       = "deepseek-chat"
	defaultTemperature = 0.1
	defaultTimeout     = 15 * time.Second
)

// Options configure a Client. Zero values fall back to defaults. A nil or
// negative Temperature uses the default; zero is a valid setting.
type Options struct {
	APIKey      string
	URL         string
	Model       string
	Temperature *float64
	Timeout     time.Duration
}

// Client talks to an OpenAI-style chat completions endpoint and returns the
// JSON object found in the first choice.
type Client struct {
	apiKey      string
	model       string
	apiURL      string
	temperature float64
	httpClient  *http.Client
}

// NewClient creates a new oracle client
func NewClient(opts Options) *Client {
	if opts.URL == "" {
		opts.URL = defaultAPIURL
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	temperature := defaultTemperature
	if opts.Temperature != nil && *opts.Temperature >= 0 {
		temperature = *opts.Temperature
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &Client{
		apiKey:      opts.APIKey,
		model:       opts.Model,
		apiURL:      opts.URL,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Ask sends prompt as a single user message and returns the JSON object the
// model answered with. Every failure is a *Failure.
func (c *Client) Ask(ctx context.Context, prompt string) (json.RawMessage, error) {
	if !c.IsConfigured() {
		return nil, transportErr("api key is not configured")
	}

	reqBody, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    c.temperature,
	})
	if err != nil {
		return nil, malformedErr("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, transportErr("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportErr("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, transportErr("API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, malformedErr("failed to unmarshal response: %w", err)
	}
	if apiResp.Error != nil {
		return nil, transportErr("API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return nil, malformedErr("empty response from API")
	}

	content := apiResp.Choices[0].Message.Content
	jsonStr := extractJSON(content)
	if !strings.HasPrefix(jsonStr, "{") || !json.Valid([]byte(jsonStr)) {
		return nil, malformedErr("response is not a JSON object: %s", truncate(content, 200))
	}

	return json.RawMessage(jsonStr), nil
}

// IsConfigured returns true if the client has an API key
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// extractJSON pulls the outermost object out of text that may be wrapped in
// a markdown fence or surrounded by prose.
func extractJSON(text string) string {
	start := findJSONStart(text)
	if start < 0 {
		return strings.TrimSpace(text)
	}

	end := findJSONEnd(text, start)
	if end < 0 {
		return text[start:]
	}
	return text[start : end+1]
}

func findJSONStart(text string) int {
	return strings.IndexByte(text, '{')
}

func findJSONEnd(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
