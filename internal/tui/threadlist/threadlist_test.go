// ABOUTME: Tests for the thread list screen
// ABOUTME: Drives keys and fetch results against the forumtest fake backend

package threadlist

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/forumtest"
	"github.com/markalston/forum-client/internal/listquery"
	"github.com/markalston/forum-client/internal/tui/recentsearches"
	"github.com/markalston/forum-client/internal/tui/sortmenu"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func newList(t *testing.T, threads int) (*Model, *forumtest.Server, *recentsearches.RecentSearches) {
	t.Helper()
	fake := forumtest.New()
	server := forumtest.Start(t, fake)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < threads; i++ {
		tags := []string{"general"}
		if i%2 == 0 {
			tags = []string{"bug"}
		}
		fake.AddThread(client.Thread{
			ID:          fmt.Sprintf("t%02d", i),
			Title:       fmt.Sprintf("Thread %02d", i),
			Body:        "body",
			Creator:     "ann",
			CreatedTime: base.Add(time.Duration(i) * time.Hour),
			Tags:        tags,
		})
	}

	c := client.New(server.URL)
	recent := recentsearches.New(t.TempDir())
	m := New(context.Background(), c.ThreadFetcher(), recent)
	m.SetSize(100, 40)
	return m, fake, recent
}

// drive executes cmd and feeds any ResultMsg back into the model.
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case ResultMsg:
		m.Update(msg)
	case sortmenu.ChosenMsg, sortmenu.CancelledMsg:
		_, next := m.Update(msg)
		drive(t, m, next)
	}
}

func press(t *testing.T, m *Model, keys ...tea.KeyMsg) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(k)
		drive(t, m, cmd)
	}
}

func TestNavigateInitialLoad(t *testing.T) {
	m, _, _ := newList(t, 12)

	drive(t, m, m.Navigate(listquery.FormatLocation("", "created_time_desc")))

	state := m.State()
	if len(state.Items) != 10 || state.Items[0].ID != "t11" {
		t.Errorf("expected newest ten threads, got %d starting %v", len(state.Items), state.Items)
	}
	if state.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", state.TotalPages)
	}
	if m.LastUpdate().IsZero() {
		t.Error("expected last update to be set")
	}
}

func TestSearchCommitsAndRemembers(t *testing.T) {
	m, fake, recent := newList(t, 6)

	press(t, m, runes("/"))
	if !m.Capturing() {
		t.Fatal("expected search box to capture keys")
	}
	press(t, m, runes("tag:bug"), enter)

	if m.Capturing() {
		t.Error("expected search box released after enter")
	}
	state := m.State()
	if state.ActiveText != "tag:bug" || len(state.Items) != 3 {
		t.Errorf("expected three bug threads, got %q with %d items", state.ActiveText, len(state.Items))
	}
	if m.Location() != "/?q=tag%3Abug&order=created_time_desc" {
		t.Errorf("unexpected location %s", m.Location())
	}
	if got := recent.List(); len(got) != 1 || got[0] != "tag:bug" {
		t.Errorf("expected recent search saved, got %v", got)
	}
	reqs := fake.Requests()
	if last := reqs[len(reqs)-1]; last != "GET /api/v1/thread?order=created_time_desc&p=1&q=tag%3Abug" {
		t.Errorf("unexpected request %s", last)
	}
}

func TestSearchEscRestoresActiveText(t *testing.T) {
	m, _, _ := newList(t, 3)

	press(t, m, runes("/"), runes("draft"), esc)

	state := m.State()
	if state.PendingText != "" || state.ActiveText != "" {
		t.Errorf("expected pending text discarded, got %+v", state)
	}
	if m.search.Value() != "" {
		t.Errorf("expected search box reset, got %q", m.search.Value())
	}
}

func TestTabCyclesRecentSearches(t *testing.T) {
	m, _, recent := newList(t, 1)
	recent.Add("older")
	recent.Add("newer")

	press(t, m, runes("/"), tab)
	if m.search.Value() != "newer" {
		t.Errorf("expected most recent first, got %q", m.search.Value())
	}
	press(t, m, tab)
	if m.search.Value() != "older" {
		t.Errorf("expected second recent search, got %q", m.search.Value())
	}
	if m.State().PendingText != "older" {
		t.Errorf("expected pending text to follow, got %q", m.State().PendingText)
	}
}

func TestSortMenu(t *testing.T) {
	m, _, _ := newList(t, 4)
	drive(t, m, m.Navigate("/"))

	press(t, m, runes("s"))
	if !m.Capturing() {
		t.Fatal("expected sort menu open")
	}
	press(t, m, down, enter)

	state := m.State()
	if state.SortKey != "Oldest first" {
		t.Errorf("expected Oldest first, got %s", state.SortKey)
	}
	if state.Items[0].ID != "t00" {
		t.Errorf("expected oldest thread first, got %s", state.Items[0].ID)
	}
	if m.Capturing() {
		t.Error("expected sort menu closed")
	}
}

func TestPagingAndLoadMore(t *testing.T) {
	m, _, _ := newList(t, 25)
	drive(t, m, m.Navigate("/"))

	press(t, m, runes("]"))
	if state := m.State(); state.Page != 2 || state.Items[0].ID != "t14" {
		t.Errorf("expected page 2 replacing, got page %d starting %s", state.Page, state.Items[0].ID)
	}

	press(t, m, runes("m"))
	state := m.State()
	if state.Page != 3 || len(state.Items) != 15 {
		t.Errorf("expected page 3 appended, got page %d with %d items", state.Page, len(state.Items))
	}

	press(t, m, runes("m"))
	if got := len(m.State().Items); got != 15 {
		t.Errorf("expected load more at last page to be a no-op, got %d items", got)
	}

	press(t, m, runes("["))
	if state := m.State(); state.Page != 2 || len(state.Items) != 10 {
		t.Errorf("expected back to page 2, got page %d with %d items", state.Page, len(state.Items))
	}
}

func TestRefreshKeepsLoadedPages(t *testing.T) {
	m, _, _ := newList(t, 25)
	drive(t, m, m.Navigate("/"))
	press(t, m, runes("m"))

	press(t, m, runes("r"))
	state := m.State()
	if state.Page != 2 || len(state.Items) != 20 {
		t.Errorf("expected 20 items on page 2 after refresh, got %d on page %d", len(state.Items), state.Page)
	}
	if state.Items[0].ID != "t24" {
		t.Errorf("expected list to start at t24, got %s", state.Items[0].ID)
	}
}

func TestOpenThread(t *testing.T) {
	m, _, _ := newList(t, 3)
	drive(t, m, m.Navigate("/"))

	press(t, m, down)
	_, cmd := m.Update(enter)
	if cmd == nil {
		t.Fatal("expected open command")
	}
	msg, ok := cmd().(OpenMsg)
	if !ok || msg.ID != "t01" {
		t.Errorf("expected OpenMsg for t01, got %#v", cmd())
	}
}

func TestFailedRefreshKeepsItems(t *testing.T) {
	m, fake, _ := newList(t, 3)
	drive(t, m, m.Navigate("/"))

	fake.Fail("GET /api/v1/thread", 500, "database unavailable")
	press(t, m, runes("r"))

	state := m.State()
	if len(state.Items) != 3 {
		t.Errorf("expected last good items kept, got %d", len(state.Items))
	}
	if state.Err == nil || !strings.Contains(m.View(), "database unavailable") {
		t.Errorf("expected error shown, got %v", state.Err)
	}
}

func TestStaleResultDropped(t *testing.T) {
	m, _, _ := newList(t, 6)

	first := m.Navigate("/?q=tag:bug")
	second := m.Navigate("/?q=tag:general")

	m.Update(second())
	m.Update(first())

	if got := m.State().ActiveText; got != "tag:general" {
		t.Errorf("expected latest search active, got %s", got)
	}
	for _, th := range m.State().Items {
		if th.Tags[0] != "general" {
			t.Errorf("expected only general threads, got %v", th.Tags)
		}
	}
}

func TestViewEmpty(t *testing.T) {
	m, _, _ := newList(t, 0)
	drive(t, m, m.Navigate("/"))

	if !strings.Contains(m.View(), "No threads found.") {
		t.Errorf("expected empty message, got %s", m.View())
	}
}
