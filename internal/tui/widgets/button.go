// ABOUTME: Button widget shared by the search and sort controls
// ABOUTME: One renderer with a Density setting instead of per-size variants

package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/forum-client/internal/tui/styles"
)

// Density controls how much room a button takes
type Density int

const (
	// Compact shows only the key, for narrow terminals
	Compact Density = iota
	// Regular shows the key and label
	Regular
	// Comfortable pads the key and label inside a filled block
	Comfortable
)

// DensityForWidth picks a density that fits a terminal of the given width
func DensityForWidth(width int) Density {
	switch {
	case width < 80:
		return Compact
	case width < 120:
		return Regular
	default:
		return Comfortable
	}
}

// Button renders a keyboard-activated button such as "[/] Search"
func Button(key, label string, d Density, active bool) string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Text)
	if active {
		keyStyle = keyStyle.Foreground(styles.Primary)
		labelStyle = labelStyle.Bold(true)
	}

	switch d {
	case Compact:
		return keyStyle.Render("[" + key + "]")
	case Comfortable:
		bg := styles.Surface
		if active {
			bg = styles.Primary
		}
		block := lipgloss.NewStyle().Background(bg).Padding(0, 1)
		return block.Render(keyStyle.Background(bg).Render(key) + labelStyle.Background(bg).Render(" "+label))
	default:
		return keyStyle.Render("["+key+"]") + " " + labelStyle.Render(label)
	}
}
