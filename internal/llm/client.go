package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"edubot-backend/internal/config"
)

var (
	// ErrUnavailable means the inference server could not be reached at all.
	ErrUnavailable = errors.New("inference server unavailable")
	// ErrBadStatus means the inference server answered with a non-200 status.
	ErrBadStatus = errors.New("inference server returned an error")
)

// Client talks to a local Ollama generate endpoint. Non-streaming: Generate
// blocks until the full completion arrives or the timeout fires.
type Client struct {
	url            string
	model          string
	promptTemplate string
	httpClient     *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Response is a pointer so a body without the field can be told apart from
// an empty completion.
type generateResponse struct {
	Response *string `json:"response"`
}

const fallbackCompletion = "Sorry, I could not generate a response."

func NewClient(cfg config.OllamaConfig) *Client {
	return &Client{
		url:            cfg.URL,
		model:          cfg.Model,
		promptTemplate: cfg.PromptTemplate,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// buildPrompt wraps the user message in the configured template. An empty
// template sends the message as-is.
func (c *Client) buildPrompt(message string) string {
	if c.promptTemplate == "" {
		return message
	}
	return fmt.Sprintf(c.promptTemplate, message)
}

// Generate sends the message to the inference server and returns the
// completion text.
func (c *Client) Generate(ctx context.Context, message string) (string, error) {
	payload := generateRequest{
		Model:  c.model,
		Prompt: c.buildPrompt(message),
		Stream: false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d", ErrBadStatus, resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.Response == nil {
		return fallbackCompletion, nil
	}
	return *result.Response, nil
}
