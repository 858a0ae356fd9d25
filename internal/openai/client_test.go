package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidhbaek/termchat/internal/openai"
	"github.com/davidhbaek/termchat/internal/wire"
)

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content []struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		require.Equal(t, "gpt-4o", reqBody.Model)

		// The system prompt rides along as the first message
		require.GreaterOrEqual(t, len(reqBody.Messages), 2)
		require.Equal(t, "system", reqBody.Messages[0].Role)
		require.Equal(t, "Answer briefly.", reqBody.Messages[0].Content[0].Text)
		require.Equal(t, "user", reqBody.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-01",
			"model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello there"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	client := openai.NewClient("test-key", "gpt-4o", openai.WithBaseURL(server.URL))

	messages := []wire.Message{wire.TextMessage(wire.RoleUser, "Hello World")}
	rsp, err := client.SendMessage(context.Background(), messages, "Answer briefly.")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	text, err := client.ReadBody(rsp.Body)
	require.NoError(t, err)
	require.Equal(t, "Hello there", text)
}

func TestSendMessageTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := openai.NewClient("test-key", "gpt-4o", openai.WithBaseURL(server.URL))

	_, err := client.SendMessage(context.Background(), []wire.Message{wire.TextMessage(wire.RoleUser, "hi")}, "")
	require.Error(t, err)

	var transportErr *wire.TransportError
	require.True(t, errors.As(err, &transportErr))
}

func TestReadBodyErrorPayload(t *testing.T) {
	body := strings.NewReader(`{"error": {"type": "invalid_request_error", "message": "you must provide a model"}}`)

	client := openai.NewClient("test-key", "gpt-4o")
	_, err := client.ReadBody(body)
	require.Error(t, err)

	var providerErr *wire.ProviderError
	require.True(t, errors.As(err, &providerErr))
	require.Equal(t, "invalid_request_error", providerErr.Type)
	require.Equal(t, "you must provide a model", providerErr.Message)
}

func TestReadBodyNoChoices(t *testing.T) {
	client := openai.NewClient("test-key", "gpt-4o")
	_, err := client.ReadBody(strings.NewReader(`{"id": "chatcmpl-02", "choices": []}`))
	require.ErrorIs(t, err, wire.ErrEmptyResponse)
}
