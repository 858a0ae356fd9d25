// Package wire holds types that represent anything that goes across a boundary
// Think I/O operations
package wire

import (
	"io"
	"strings"
)

// Roles a conversation turn can carry. The system prompt never appears in
// history; it travels out-of-band on every request.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

// TextMessage builds a single-block text message for the given role.
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: []Content{&Text{Type: "text", Text: text}}}
}

// Text returns the concatenated text blocks of the message.
func (m Message) Text() string {
	var sb strings.Builder
	for _, c := range m.Content {
		if t, ok := c.(*Text); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

type Content interface {
	GetType() string
}

type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

var _ Content = &Text{}

func (t *Text) GetType() string {
	return "text"
}

// OpenAIImage is the image content shape the chat completions API expects.
type OpenAIImage struct {
	Type     string `json:"type"`
	ImageURL struct {
		URL string `json:"url"`
	} `json:"image_url"`
}

var _ Content = &OpenAIImage{}

func (i *OpenAIImage) GetType() string {
	return "image"
}

// AnthropicImage is the base64 image content shape the messages API expects.
type AnthropicImage struct {
	Type   string `json:"type"`
	Source struct {
		Type      string `json:"type"`
		MediaType string `json:"media_type"`
		Data      string `json:"data"`
	} `json:"source"`
}

var _ Content = &AnthropicImage{}

func (i *AnthropicImage) GetType() string {
	return "image"
}

type Response struct {
	StatusCode int
	Body       io.Reader
}
