package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const renderWidth = 100

// renderMarkdown pretty-prints an assistant reply for the terminal. Falls
// back to the raw text if rendering fails.
func renderMarkdown(text string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(renderWidth),
	)
	if err != nil {
		return text
	}

	out, err := renderer.Render(text)
	if err != nil {
		return text
	}

	return strings.TrimRight(out, "\n")
}
