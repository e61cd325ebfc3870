package groq

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"invoicr/internal/config"
	"invoicr/internal/llm"
	"invoicr/internal/port"
)

const apiURL = "https://api.groq.com/openai/v1/chat/completions"

// Client implements port.Generator against the Groq OpenAI-compatible
// chat-completions API.
type Client struct {
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	endpoint    string
	client      *http.Client
}

func init() {
	llm.RegisterProvider("groq", func(cfg *config.GenerationConfig, model string) (port.Generator, error) {
		return NewClient(cfg, model), nil
	})
}

// NewClient creates a Groq generator bound to one model name.
func NewClient(cfg *config.GenerationConfig, model string) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	return newClient(cfg, model, endpoint)
}

// NewClientWithEndpoint creates a generator pointing at a custom API endpoint
// (for testing).
func NewClientWithEndpoint(cfg *config.GenerationConfig, model, endpoint string) *Client {
	return newClient(cfg, model, endpoint)
}

func newClient(cfg *config.GenerationConfig, model, endpoint string) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	maxTokens := cfg.MaxCompletionToken
	if maxTokens == 0 {
		maxTokens = 8192
	}
	return &Client{
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		endpoint:    endpoint,
		client:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) Generate(ctx context.Context, input port.GenerateInput) (string, error) {
	reqBody := map[string]interface{}{
		"model":                 c.model,
		"temperature":           c.temperature,
		"max_completion_tokens": c.maxTokens,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": buildContent(input),
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling groq API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return parseResponse(respBody)
}

// buildContent assembles the message content blocks. Image-bearing requests
// use the multi-part content form with an inline data URL; text-only requests
// send the prompt as a single text block.
func buildContent(input port.GenerateInput) []map[string]interface{} {
	blocks := []map[string]interface{}{
		{"type": "text", "text": input.Prompt},
	}
	if len(input.Image) > 0 {
		mime := input.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(input.Image))
		blocks = append(blocks, map[string]interface{}{
			"type":      "image_url",
			"image_url": map[string]interface{}{"url": dataURL},
		})
	}
	return blocks
}

// apiResponse models the chat-completions response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// parseResponse extracts the reply text. An empty choice list or blank
// content is returned as an empty string so the caller's retry policy can
// classify it; only transport and decode problems are errors here.
func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
