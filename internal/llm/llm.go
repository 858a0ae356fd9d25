package llm

import (
	"context"
	"io"

	"github.com/davidhbaek/termchat/internal/anthropic"
	"github.com/davidhbaek/termchat/internal/openai"
	"github.com/davidhbaek/termchat/internal/wire"
)

// Default model names
// https://platform.openai.com/docs/models
// https://docs.anthropic.com/en/docs/about-claude/models
const (
	GPT4O  = "gpt-4o"
	SONNET = "claude-sonnet-4-5-20250929"
)

type Client interface {
	// Define how to send a prompt to the LLMs API
	SendMessage(ctx context.Context, messages []wire.Message, systemPrompt string) (*wire.Response, error)
	// Define how to read the response body from the LLM
	ReadBody(body io.Reader) (string, error)
	// Return the underlying LLM being prompted
	Model() string
}

// Enforce interface compliance
var (
	_ Client = &openai.Client{}
	_ Client = &anthropic.Client{}
)
