// ABOUTME: Numbered pager for paged lists
// ABOUTME: Shows first, last and nearby pages with ellipses between gaps

package widgets

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/forum-client/internal/tui/styles"
)

// pagerWindow is how many pages are shown on each side of the current one
const pagerWindow = 2

// PagerItems returns the page numbers to show, with 0 marking an ellipsis
func PagerItems(page, total int) []int {
	if total < 1 {
		total = 1
	}
	page = max(1, min(page, total))

	var items []int
	last := 0
	for n := 1; n <= total; n++ {
		near := n >= page-pagerWindow && n <= page+pagerWindow
		if n != 1 && n != total && !near {
			continue
		}
		if last != 0 && n > last+1 {
			items = append(items, 0)
		}
		items = append(items, n)
		last = n
	}
	return items
}

// Pager renders "‹ 1 … 4 [5] 6 … 12 ›" for the current page
func Pager(page, total int) string {
	current := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	other := lipgloss.NewStyle().Foreground(styles.Text)
	dim := lipgloss.NewStyle().Foreground(styles.Muted)

	prev, next := dim.Render("‹"), dim.Render("›")
	if page > 1 {
		prev = other.Render("‹")
	}
	if page < total {
		next = other.Render("›")
	}

	parts := []string{prev}
	for _, n := range PagerItems(page, total) {
		switch {
		case n == 0:
			parts = append(parts, dim.Render("…"))
		case n == page:
			parts = append(parts, current.Render("["+strconv.Itoa(n)+"]"))
		default:
			parts = append(parts, other.Render(strconv.Itoa(n)))
		}
	}
	parts = append(parts, next)
	return strings.Join(parts, " ")
}
