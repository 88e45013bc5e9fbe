// ABOUTME: Tag chip widgets for thread tags
// ABOUTME: Renders tags as colored inline chips with an optional focused chip

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/forum-client/internal/tui/styles"
)

// Chip colors
var (
	ChipBg        = lipgloss.Color("#1E3A8A")
	ChipFg        = lipgloss.Color("#DBEAFE")
	ChipFocusedBg = lipgloss.Color("#3B82F6")
	ChipFocusedFg = lipgloss.Color("#FFFFFF")
)

// Chip renders a single tag
func Chip(tag string, focused bool) string {
	bg, fg := ChipBg, ChipFg
	if focused {
		bg, fg = ChipFocusedBg, ChipFocusedFg
	}
	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1)
	if focused {
		style = style.Bold(true).Underline(true)
	}
	return style.Render(tag)
}

// Chips renders tags side by side. focused is the index of the focused chip,
// or -1 for none. An empty list renders "None".
func Chips(tags []string, focused int) string {
	if len(tags) == 0 {
		return lipgloss.NewStyle().Foreground(styles.Muted).Render("None")
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = Chip(tag, i == focused)
	}
	return strings.Join(parts, " ")
}
