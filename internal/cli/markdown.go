package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWrapWidth is the column at which rendered text wraps.
const DefaultWrapWidth = 80

// RenderMarkdown renders a book description for the terminal. An empty style
// picks dark, light or plain output from the terminal; "notty" forces plain.
func RenderMarkdown(md string, width int, style string) (string, error) {
	if strings.TrimSpace(md) == "" {
		return "", nil
	}
	if width <= 0 {
		width = DefaultWrapWidth
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
