// Package anthropic implements a messages client for Anthropic-compatible
// backends over plain net/http.
package anthropic

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

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	maxTokens      = 1024
)

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

// WithBaseURL points the client at an Anthropic-compatible backend.
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
	reqBody, err := json.Marshal(struct {
		Model        string         `json:"model"`
		MaxTokens    int            `json:"max_tokens"`
		SystemPrompt string         `json:"system,omitempty"`
		Messages     []wire.Message `json:"messages"`
	}{
		Model:        c.model,
		MaxTokens:    maxTokens,
		SystemPrompt: systemPrompt,
		Messages:     messages,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", c.config.baseURL, "v1/messages"), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("building POST request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	rsp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &wire.TransportError{Err: err}
	}

	return &wire.Response{
		StatusCode: rsp.StatusCode,
		Body:       rsp.Body,
	}, nil
}

// ReadBody extracts the assistant text from a messages response body. Error
// payloads carry type "error" and surface as a ProviderError.
func (c *Client) ReadBody(body io.Reader) (string, error) {
	response := struct {
		ID      string `json:"id"`
		Type    string `json:"type"`
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
		Error      *struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}{}

	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return "", fmt.Errorf("unmarshaling response from API: %w", err)
	}

	if response.Type == "error" && response.Error != nil {
		return "", &wire.ProviderError{Type: response.Error.Type, Message: response.Error.Message}
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	if text == "" {
		return "", wire.ErrEmptyResponse
	}

	return text, nil
}
