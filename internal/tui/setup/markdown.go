package setup

import (
	"strings"

	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
)

// renderMarkdown renders markdown content using glamour.
// Falls back to plain text wrapping if rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 100 {
		width = 100
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(content)
	}

	rendered, err := r.Render(content)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(content)
	}

	return strings.Trim(rendered, "\n")
}

// markdownCache memoizes rendered markdown per width.
type markdownCache struct {
	width   int
	entries map[string]string
}

func (c *markdownCache) render(content string, width int) string {
	if c.entries == nil || c.width != width {
		c.entries = make(map[string]string)
		c.width = width
	}
	if out, ok := c.entries[content]; ok {
		return out
	}
	out := renderMarkdown(content, width)
	c.entries[content] = out
	return out
}
