// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, the session and routes keyboard input to child screens

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/forum-client/internal/auth"
	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/listquery"
	"github.com/markalston/forum-client/internal/tokenstore"
	"github.com/markalston/forum-client/internal/tui/authform"
	"github.com/markalston/forum-client/internal/tui/editor"
	"github.com/markalston/forum-client/internal/tui/icons"
	"github.com/markalston/forum-client/internal/tui/recentsearches"
	"github.com/markalston/forum-client/internal/tui/styles"
	"github.com/markalston/forum-client/internal/tui/threadlist"
	"github.com/markalston/forum-client/internal/tui/threadview"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenThreads Screen = iota
	ScreenThread
	ScreenEditor
	ScreenAuth
)

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	panelPadding     = 4  // Border plus horizontal padding of the content panel
	frameLines       = 4  // Header, footer and the panel's top and bottom border
)

// sessionChangedMsg is sent after the session is loaded or replaced
type sessionChangedMsg struct{}

// threadSavedMsg is sent when the editor's create or update finishes
type threadSavedMsg struct {
	id  string
	err error
}

// authDoneMsg is sent when login or signup finishes
type authDoneMsg struct {
	username string
	err      error
}

// Options configures the application
type Options struct {
	Client  *client.Client
	Session *auth.Store
	// ConfigDir holds recent searches. Empty disables them.
	ConfigDir string
	// Location is the initial thread list location, e.g. "/?q=tag%3Abug".
	Location string
	// WatchDir is the file token store directory to watch for logins
	// from other processes. Empty disables watching.
	WatchDir string
}

// App is the root model for the TUI
type App struct {
	ctx     context.Context
	client  *client.Client
	session *auth.Store
	opts    Options

	screen   Screen
	returnTo Screen
	width    int
	height   int
	user     auth.Session
	loaded   bool
	notice   string
	history  []string

	// Child models
	threads  *threadlist.Model
	view     *threadview.Model
	editor   *editor.Editor
	authForm *authform.Form
}

// New creates a new TUI application
func New(ctx context.Context, opts Options) *App {
	var recent *recentsearches.RecentSearches
	if opts.ConfigDir != "" {
		recent = recentsearches.New(opts.ConfigDir)
	}
	return &App{
		ctx:     ctx,
		client:  opts.Client,
		session: opts.Session,
		opts:    opts,
		screen:  ScreenThreads,
		threads: threadlist.New(ctx, opts.Client.ThreadFetcher(), recent),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	location := a.opts.Location
	if location == "" {
		location = "/"
	}
	return tea.Batch(a.initSession(), a.threads.Navigate(location))
}

// initSession restores the persisted token off the UI goroutine
func (a *App) initSession() tea.Cmd {
	ctx, session := a.ctx, a.session
	return func() tea.Msg {
		session.Initialize(ctx)
		return sessionChangedMsg{}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.threads.SetSize(a.contentWidth(), a.contentHeight())
		if a.view != nil {
			a.view.SetSize(a.contentWidth(), a.contentHeight())
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.notice = ""

		switch a.screen {
		case ScreenThreads:
			return a.updateThreads(msg)
		case ScreenThread:
			return a.updateThread(msg)
		case ScreenEditor:
			return a.updateEditor(msg)
		case ScreenAuth:
			return a.updateAuth(msg)
		}

	case sessionChangedMsg:
		// Sends may arrive out of order; the store holds the latest session
		a.user = a.session.Snapshot()
		a.loaded = a.session.IsLoaded()
		if a.view != nil {
			a.view.SetUser(a.user.Username)
		}
		return a, nil

	case threadlist.ResultMsg:
		_, cmd := a.threads.Update(msg)
		return a, cmd

	case threadlist.OpenMsg:
		return a, a.openThread(msg.ID)

	case threadview.BackMsg:
		a.screen = ScreenThreads
		a.view = nil
		return a, a.threads.Refresh()

	case threadview.FollowTagMsg:
		a.view = nil
		a.screen = ScreenThreads
		return a, a.navigate(listquery.TagLocation(msg.Tag, listquery.ThreadSorts.Default().Token))

	case threadview.EditThreadMsg:
		thread := msg.Thread
		return a, a.openEditor(&thread)

	case threadview.DeletedMsg:
		a.view = nil
		a.screen = ScreenThreads
		a.notice = "Thread deleted"
		return a, a.threads.Refresh()

	case threadview.LoginRequiredMsg:
		return a, a.openAuth(authform.ModeLogin)

	case editor.SubmittedMsg:
		return a, a.saveThread(msg)

	case editor.CancelledMsg:
		a.editor = nil
		a.screen = a.returnTo
		return a, nil

	case threadSavedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrNotLoggedIn) {
				return a, a.openAuth(authform.ModeLogin)
			}
			if a.editor != nil {
				return a, a.editor.Retry(msg.err.Error())
			}
			return a, nil
		}
		a.editor = nil
		return a, a.openThread(msg.id)

	case authform.SubmittedMsg:
		return a, a.authenticate(msg)

	case authform.CancelledMsg:
		a.authForm = nil
		a.screen = a.returnTo
		return a, nil

	case authDoneMsg:
		if msg.err != nil {
			if a.authForm != nil {
				return a, a.authForm.Retry(msg.err.Error())
			}
			return a, nil
		}
		a.authForm = nil
		a.screen = a.returnTo
		a.user = a.session.Snapshot()
		a.loaded = true
		if a.view != nil {
			a.view.SetUser(a.user.Username)
		}
		a.notice = "Logged in as " + msg.username
		return a, nil

	default:
		// Forward unknown messages to the active screen (huh forms and cursor blinks need them)
		return a.forward(msg)
	}

	return a, nil
}

func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenThreads:
		_, cmd = a.threads.Update(msg)
	case ScreenThread:
		if a.view != nil {
			_, cmd = a.view.Update(msg)
		}
	case ScreenEditor:
		if a.editor != nil {
			_, cmd = a.editor.Update(msg)
		}
	case ScreenAuth:
		if a.authForm != nil {
			_, cmd = a.authForm.Update(msg)
		}
	}
	return a, cmd
}

func (a *App) updateThreads(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.threads.Capturing() {
		if model, cmd, ok := a.globalKey(msg); ok {
			return model, cmd
		}
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "b":
			return a, a.back()
		}
	}

	before := a.threads.Location()
	_, cmd := a.threads.Update(msg)
	if after := a.threads.Location(); after != before {
		a.history = append(a.history, before)
	}
	return a, cmd
}

func (a *App) updateThread(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.view == nil {
		return a, nil
	}
	if !a.view.Capturing() {
		if model, cmd, ok := a.globalKey(msg); ok {
			return model, cmd
		}
	}
	_, cmd := a.view.Update(msg)
	return a, cmd
}

// globalKey handles the account and new thread keys shared by both browsing screens
func (a *App) globalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "n":
		if !a.user.IsAuthenticated {
			return a, a.openAuth(authform.ModeLogin), true
		}
		return a, a.openEditor(nil), true
	case "l":
		return a, a.openAuth(authform.ModeLogin), true
	case "u":
		if a.screen == ScreenThreads {
			return a, a.openAuth(authform.ModeSignup), true
		}
	case "o":
		if a.user.IsAuthenticated {
			a.session.Reset(a.ctx)
			a.user = a.session.Snapshot()
			if a.view != nil {
				a.view.SetUser("")
			}
			a.notice = "Logged out"
		}
		return a, nil, true
	}
	return a, nil, false
}

func (a *App) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.editor == nil {
		return a, nil
	}
	_, cmd := a.editor.Update(msg)
	return a, cmd
}

func (a *App) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.authForm == nil {
		return a, nil
	}
	_, cmd := a.authForm.Update(msg)
	return a, cmd
}

// navigate records the current location and moves the list to location
func (a *App) navigate(location string) tea.Cmd {
	if current := a.threads.Location(); current != location {
		a.history = append(a.history, current)
	}
	return a.threads.Navigate(location)
}

// back returns the list to the previous location
func (a *App) back() tea.Cmd {
	if len(a.history) == 0 {
		return nil
	}
	location := a.history[len(a.history)-1]
	a.history = a.history[:len(a.history)-1]
	return a.threads.Navigate(location)
}

func (a *App) openThread(id string) tea.Cmd {
	a.view = threadview.New(a.ctx, a.client, id, a.user.Username)
	a.view.SetSize(a.contentWidth(), a.contentHeight())
	a.screen = ScreenThread
	return a.view.Init()
}

func (a *App) openEditor(thread *client.Thread) tea.Cmd {
	if a.screen != ScreenEditor && a.screen != ScreenAuth {
		a.returnTo = a.screen
	}
	a.editor = editor.New(thread)
	a.screen = ScreenEditor
	return a.editor.Init()
}

func (a *App) openAuth(mode authform.Mode) tea.Cmd {
	if a.screen != ScreenEditor && a.screen != ScreenAuth {
		a.returnTo = a.screen
	}
	a.editor = nil
	a.authForm = authform.New(mode)
	a.screen = ScreenAuth
	return a.authForm.Init()
}

// saveThread creates or updates the editor's thread
func (a *App) saveThread(msg editor.SubmittedMsg) tea.Cmd {
	ctx, c := a.ctx, a.client
	return func() tea.Msg {
		if msg.ThreadID != "" {
			err := c.UpdateThread(ctx, msg.ThreadID, msg.Input)
			return threadSavedMsg{id: msg.ThreadID, err: err}
		}
		thread, err := c.CreateThread(ctx, msg.Input)
		if err != nil {
			return threadSavedMsg{err: err}
		}
		return threadSavedMsg{id: thread.ID}
	}
}

// authenticate logs in or signs up, then stores the issued token
func (a *App) authenticate(msg authform.SubmittedMsg) tea.Cmd {
	ctx, c, session := a.ctx, a.client, a.session
	return func() tea.Msg {
		var (
			resp *client.AuthResponse
			err  error
		)
		if msg.Mode == authform.ModeSignup {
			resp, err = c.Signup(ctx, msg.Credentials)
		} else {
			resp, err = c.Login(ctx, msg.Credentials)
		}
		if err != nil {
			return authDoneMsg{err: err}
		}
		session.SetFromToken(ctx, resp.Token)
		if !session.Snapshot().IsAuthenticated {
			return authDoneMsg{err: errors.New("the server returned an unusable token")}
		}
		return authDoneMsg{username: session.Snapshot().Username}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenThreads:
		content = a.threads.View()
	case ScreenThread:
		if a.view != nil {
			content = a.view.View()
		}
	case ScreenEditor:
		if a.editor != nil {
			content = a.editor.View()
		}
	case ScreenAuth:
		if a.authForm != nil {
			content = a.authForm.View()
		}
	}

	if a.notice != "" {
		content = styles.StatusOK.Render(icons.CheckOK.String()+" "+a.notice) + "\n" + content
	}
	panel := styles.ActivePanel.Width(a.frameWidth() - 2).Render(content)
	return a.wrapWithFrame(panel)
}

// frameWidth is the terminal width, clamped to the minimum usable width
func (a *App) frameWidth() int {
	if a.width < minTerminalWidth {
		return minTerminalWidth
	}
	return a.width
}

// contentWidth is the width available inside the content panel
func (a *App) contentWidth() int {
	return a.frameWidth() - panelPadding
}

// contentHeight is the height available inside the content panel
func (a *App) contentHeight() int {
	return max(1, a.height-frameLines)
}

// headerContext describes where the user is
func (a *App) headerContext() string {
	switch a.screen {
	case ScreenThread:
		if a.view != nil && a.view.Thread() != nil {
			return a.view.Thread().Title
		}
		return "Thread"
	case ScreenEditor:
		if a.editor != nil && a.editor.Editing() {
			return "Edit thread"
		}
		return "New thread"
	case ScreenAuth:
		if a.authForm != nil {
			return a.authForm.Mode().String()
		}
	}
	if text := a.threads.State().ActiveText; text != "" {
		return "Search: " + text
	}
	return "All threads"
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	// Identity is only shown once the stored token has been checked
	rightText := ""
	if a.loaded {
		if a.user.IsAuthenticated {
			rightText = " " + contextStyle.Render(icons.User.String()+" "+a.user.Username) + " "
		} else {
			rightText = " " + lipgloss.NewStyle().Foreground(styles.Muted).Render(icons.Login.String()+" l Log in") + " "
		}
	}

	brand := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Forum"))
	// Long thread titles are cut rather than wrapping the frame
	room := width - 4 - lipgloss.Width(brand) - lipgloss.Width(rightText) - 1
	leftText := brand + contextStyle.Render(truncate(a.headerContext(), room)) + " "

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenThreads:
		shortcuts = []string{"/ Search", "s Sort", "Enter Open", "n New", "b Back", "q Quit"}
	case ScreenThread:
		shortcuts = []string{"c Comment", "m More", "Tab Tags", "b Back"}
	case ScreenEditor:
		shortcuts = []string{"Tab Next", "Enter Confirm", "Esc Cancel"}
	case ScreenAuth:
		shortcuts = []string{"Enter Confirm", "Esc Cancel"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		key, label, _ := strings.Cut(s, " ")
		styledShortcuts = append(styledShortcuts, keyStyle.Render(key)+" "+labelStyle.Render(label))
	}
	leftText := " " + strings.Join(styledShortcuts, "  ")

	rightText := ""
	if last := a.threads.LastUpdate(); !last.IsZero() && a.screen == ScreenThreads {
		rightText = statusStyle.Render("Updated "+a.formatTimeSince(last)) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// truncate cuts s to at most width cells, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until it exits
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := New(ctx, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	// Logout resets the session from inside Update, so Send must not block the event loop
	opts.Session.Subscribe(func(auth.Session) {
		go p.Send(sessionChangedMsg{})
	})

	if opts.WatchDir != "" {
		go func() {
			err := tokenstore.Watch(ctx, opts.WatchDir, auth.TokenKey, slog.Default(), func() {
				opts.Session.Reload(ctx)
			})
			if err != nil {
				slog.Warn("token watcher stopped", "error", err)
			}
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
