// ABOUTME: Sort order picker shown over the thread list and thread view
// ABOUTME: Lists a sort table's labels and reports the chosen one

package sortmenu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/forum-client/internal/listquery"
	"github.com/markalston/forum-client/internal/tui/styles"
)

// ChosenMsg is sent when the user picks a sort order
type ChosenMsg struct {
	Label string
}

// CancelledMsg is sent when the user closes the menu without choosing
type CancelledMsg struct{}

// Menu is the sort order picker
type Menu struct {
	options listquery.SortTable
	cursor  int
}

// New creates a menu over options with the cursor on the current label
func New(options listquery.SortTable, current string) *Menu {
	m := &Menu{options: options}
	for i, opt := range options {
		if opt.Label == current {
			m.cursor = i
		}
	}
	return m
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		label := m.options[m.cursor].Label
		return m, func() tea.Msg { return ChosenMsg{Label: label} }
	case "esc", "q":
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	return m, nil
}

// Selected returns the label under the cursor
func (m *Menu) Selected() string {
	return m.options[m.cursor].Label
}

// View implements tea.Model
func (m *Menu) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Sort by") + "\n")
	for i, opt := range m.options {
		line := "  " + opt.Label
		if i == m.cursor {
			line = styles.Selected.Render("> " + opt.Label)
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString(styles.Help.Render("↑↓ choose  enter apply  esc close"))
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(styles.Primary).Padding(0, 1).Render(sb.String())
}
