package anthropic_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidhbaek/termchat/internal/anthropic"
	"github.com/davidhbaek/termchat/internal/wire"
)

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			System    string `json:"system"`
			Messages  []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		require.Equal(t, "claude-sonnet-4-5-20250929", reqBody.Model)
		require.Equal(t, 1024, reqBody.MaxTokens)
		require.Equal(t, "Answer briefly.", reqBody.System)

		// The system prompt travels out-of-band, never as a message
		require.Len(t, reqBody.Messages, 1)
		require.Equal(t, "user", reqBody.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg-01",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "Hello"}, {"type": "text", "text": " Claude"}],
			"stop_reason": "end_turn"
		}`))
	}))
	defer server.Close()

	client := anthropic.NewClient("test-key", "claude-sonnet-4-5-20250929", anthropic.WithBaseURL(server.URL))

	messages := []wire.Message{wire.TextMessage(wire.RoleUser, "Hello Claude")}
	rsp, err := client.SendMessage(context.Background(), messages, "Answer briefly.")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	text, err := client.ReadBody(rsp.Body)
	require.NoError(t, err)
	require.Equal(t, "Hello Claude", text)
}

func TestSendMessageTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := anthropic.NewClient("test-key", "claude-sonnet-4-5-20250929", anthropic.WithBaseURL(server.URL))

	_, err := client.SendMessage(context.Background(), []wire.Message{wire.TextMessage(wire.RoleUser, "hi")}, "")
	require.Error(t, err)

	var transportErr *wire.TransportError
	require.True(t, errors.As(err, &transportErr))
}

func TestReadBodyErrorPayload(t *testing.T) {
	body := strings.NewReader(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`)

	client := anthropic.NewClient("test-key", "claude-sonnet-4-5-20250929")
	_, err := client.ReadBody(body)
	require.Error(t, err)

	var providerErr *wire.ProviderError
	require.True(t, errors.As(err, &providerErr))
	require.Equal(t, "authentication_error", providerErr.Type)
	require.Equal(t, "invalid x-api-key", providerErr.Message)
}

func TestReadBodyNoContent(t *testing.T) {
	client := anthropic.NewClient("test-key", "claude-sonnet-4-5-20250929")
	_, err := client.ReadBody(strings.NewReader(`{"id": "msg-02", "type": "message", "content": []}`))
	require.ErrorIs(t, err, wire.ErrEmptyResponse)
}
