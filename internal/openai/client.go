// Package openai implements a chat completions client for OpenAI-compatible
// backends over plain net/http.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/davidhbaek/termchat/internal/wire"
)

const defaultBaseURL = "https://api.openai.com"

type Config struct {
	baseURL string
	apiKey  string
}

type Client struct {
	config     Config
	model      string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at an OpenAI-compatible backend.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.config.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func NewClient(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		config: Config{
			baseURL: defaultBaseURL,
			apiKey:  apiKey,
		},
		model: model,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     1 * time.Minute,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) SendMessage(ctx context.Context, messages []wire.Message, systemPrompt string) (*wire.Response, error) {
	// The OpenAI API doesn't have a separate field for system prompts like the
	// Anthropic API does; it rides along as the first message.
	if len(systemPrompt) > 0 {
		messages = append([]wire.Message{wire.TextMessage("system", systemPrompt)}, messages...)
	}

	reqBody, err := json.Marshal(struct {
		Model    string         `json:"model"`
		Messages []wire.Message `json:"messages"`
	}{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", c.config.baseURL, "v1/chat/completions"), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("building POST request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.apiKey))

	rsp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &wire.TransportError{Err: err}
	}

	return &wire.Response{
		StatusCode: rsp.StatusCode,
		Body:       rsp.Body,
	}, nil
}

// ReadBody extracts the assistant text from a chat completion body, or the
// API's error payload as a ProviderError.
func (c *Client) ReadBody(body io.Reader) (string, error) {
	response := struct {
		ID      string `json:"id"`
		Model   string `json:"model"`
		Choices []struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Error *struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}{}

	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return "", fmt.Errorf("unmarshaling response from API: %w", err)
	}

	if response.Error != nil {
		return "", &wire.ProviderError{Type: response.Error.Type, Message: response.Error.Message}
	}

	if len(response.Choices) == 0 {
		return "", wire.ErrEmptyResponse
	}

	return response.Choices[0].Message.Content, nil
}
