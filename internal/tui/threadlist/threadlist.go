// ABOUTME: Thread list screen: search box, sort menu, thread rows and pager
// ABOUTME: All list state lives in a listquery controller; fetches run as tea commands

package threadlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/listquery"
	"github.com/markalston/forum-client/internal/tui/icons"
	"github.com/markalston/forum-client/internal/tui/recentsearches"
	"github.com/markalston/forum-client/internal/tui/sortmenu"
	"github.com/markalston/forum-client/internal/tui/styles"
	"github.com/markalston/forum-client/internal/tui/widgets"
)

// ResultMsg carries a finished thread fetch
type ResultMsg struct {
	Result listquery.Result[client.Thread]
}

// OpenMsg asks to open a thread
type OpenMsg struct {
	ID string
}

// rowHeight is the number of lines one thread takes
const rowHeight = 2

// Model is the thread list screen
type Model struct {
	ctx      context.Context
	ctrl     *listquery.Controller[client.Thread]
	search   textinput.Model
	sortMenu *sortmenu.Menu
	recent   *recentsearches.RecentSearches

	searching  bool
	recentIdx  int
	cursor     int
	offset     int
	width      int
	height     int
	lastUpdate time.Time
}

// New creates the screen. recent may be nil.
func New(ctx context.Context, fetch listquery.Fetcher[client.Thread], recent *recentsearches.RecentSearches) *Model {
	ti := textinput.New()
	ti.Placeholder = `Search, e.g. golang tag:help`
	ti.CharLimit = 200
	ti.Width = 40
	ti.Prompt = icons.Search.String() + " "

	return &Model{
		ctx:       ctx,
		ctrl:      listquery.New(fetch, listquery.ThreadSorts),
		search:    ti,
		recent:    recent,
		recentIdx: -1,
	}
}

// Navigate syncs the list to location and loads it. The current page is
// reloaded when the location already matches.
func (m *Model) Navigate(location string) tea.Cmd {
	values, err := listquery.ParseLocation(location)
	if err != nil {
		return m.run(m.ctrl.Refresh())
	}
	req := m.ctrl.OnLocationChange(values)
	if req == nil {
		req = m.ctrl.Refresh()
	}
	m.search.SetValue(values.Get("q"))
	return m.run(req)
}

// Refresh reloads the current page
func (m *Model) Refresh() tea.Cmd {
	return m.run(m.ctrl.Refresh())
}

// Location returns the committed search as a location string
func (m *Model) Location() string {
	return m.ctrl.Location()
}

// State returns the list state
func (m *Model) State() listquery.State[client.Thread] {
	return m.ctrl.State()
}

// Capturing reports whether keys are going to the search box or sort menu
func (m *Model) Capturing() bool {
	return m.searching || m.sortMenu != nil
}

// LastUpdate is when the list last loaded successfully
func (m *Model) LastUpdate() time.Time {
	return m.lastUpdate
}

// SetSize updates the screen dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.search.Width = max(20, width/2)
}

func (m *Model) run(req *listquery.Request[client.Thread]) tea.Cmd {
	if req == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return ResultMsg{Result: req.Run(ctx)}
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResultMsg:
		if m.ctrl.Apply(msg.Result) && msg.Result.Err == nil {
			m.lastUpdate = time.Now()
			if msg.Result.Mode == listquery.Replace {
				m.cursor, m.offset = 0, 0
			}
		}
		return m, nil

	case sortmenu.ChosenMsg:
		m.sortMenu = nil
		req, err := m.ctrl.CommitSort(msg.Label)
		if err != nil {
			return m, nil
		}
		return m, m.run(req)

	case sortmenu.CancelledMsg:
		m.sortMenu = nil
		return m, nil

	case tea.KeyMsg:
		if m.sortMenu != nil {
			_, cmd := m.sortMenu.Update(msg)
			return m, cmd
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.search.Value())
		m.search.SetValue(text)
		m.stopSearching()
		if m.recent != nil {
			m.recent.Add(text)
		}
		return m, m.run(m.ctrl.CommitSearch(text))
	case "esc":
		active := m.ctrl.State().ActiveText
		m.search.SetValue(active)
		m.ctrl.SetPending(active)
		m.stopSearching()
		return m, nil
	case "tab":
		m.cycleRecent()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetPending(m.search.Value())
	return m, cmd
}

func (m *Model) cycleRecent() {
	if m.recent == nil {
		return
	}
	list := m.recent.List()
	if len(list) == 0 {
		return
	}
	m.recentIdx = (m.recentIdx + 1) % len(list)
	m.search.SetValue(list[m.recentIdx])
	m.search.CursorEnd()
	m.ctrl.SetPending(list[m.recentIdx])
}

func (m *Model) stopSearching() {
	m.searching = false
	m.recentIdx = -1
	m.search.Blur()
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.ctrl.State()

	switch msg.String() {
	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	case "s":
		m.sortMenu = sortmenu.New(listquery.ThreadSorts, state.SortKey)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(state.Items)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(state.Items) {
			id := state.Items[m.cursor].ID
			return m, func() tea.Msg { return OpenMsg{ID: id} }
		}
	case "right", "]":
		if state.Page < state.TotalPages {
			return m, m.run(m.ctrl.GoToPage(state.Page + 1))
		}
	case "left", "[":
		if state.Page > 1 {
			return m, m.run(m.ctrl.GoToPage(state.Page - 1))
		}
	case "m":
		return m, m.run(m.ctrl.LoadMore())
	case "r":
		return m, m.Refresh()
	case "x":
		m.search.SetValue("")
		return m, m.run(m.ctrl.Clear())
	}
	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	state := m.ctrl.State()
	density := widgets.DensityForWidth(m.width)

	var sb strings.Builder
	toolbar := lipgloss.JoinHorizontal(lipgloss.Center,
		m.search.View(), "  ",
		widgets.Button("/", "Search", density, m.searching), " ",
		widgets.Button("s", "Sort: "+state.SortKey, density, m.sortMenu != nil),
	)
	sb.WriteString(toolbar + "\n")
	if m.searching && m.recent != nil && len(m.recent.List()) > 0 {
		sb.WriteString(styles.Meta.Render("tab recent: "+strings.Join(m.recent.List(), " · ")) + "\n")
	}
	sb.WriteString("\n")

	if m.sortMenu != nil {
		sb.WriteString(m.sortMenu.View())
		return sb.String()
	}

	switch {
	case len(state.Items) == 0 && state.IsLoading:
		sb.WriteString(styles.Meta.Render("Loading threads..."))
	case len(state.Items) == 0 && state.Err == nil:
		sb.WriteString(styles.Meta.Render("No threads found."))
	default:
		sb.WriteString(m.renderRows(state.Items))
	}
	sb.WriteString("\n\n")

	status := widgets.Pager(state.Page, state.TotalPages)
	if state.Page < state.TotalPages {
		status += styles.Meta.Render("   m load more")
	}
	if state.IsLoading && len(state.Items) > 0 {
		status += styles.Meta.Render("   " + icons.Refresh.String() + " loading")
	}
	sb.WriteString(status)
	if state.Err != nil {
		sb.WriteString("\n" + styles.StatusCritical.Render(icons.Critical.String()+" "+state.Err.Error()))
	}
	return sb.String()
}

func (m *Model) visibleRows() int {
	// toolbar, blank line, blank lines around the pager, pager, error line
	rows := (m.height - 6) / rowHeight
	return max(1, rows)
}

func (m *Model) renderRows(threads []client.Thread) string {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	end := min(len(threads), m.offset+visible)

	var rows []string
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(threads[i], i == m.cursor))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderRow(t client.Thread, selected bool) string {
	title := styles.Normal.Render("  " + t.Title)
	if selected {
		title = styles.Selected.Render("> " + t.Title)
	}
	meta := fmt.Sprintf("    %s %s · %s · %s %d", icons.User.String(), t.Creator,
		t.CreatedTime.Local().Format("Jan 2 2006"), icons.Comment.String(), t.NumComments)
	line := styles.Meta.Render(meta)
	if len(t.Tags) > 0 {
		line += "  " + widgets.Chips(t.Tags, -1)
	}
	return title + "\n" + line
}
