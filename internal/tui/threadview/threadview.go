// ABOUTME: Thread view screen: the thread, its tags, comments and a comment composer
// ABOUTME: Comments page through a listquery controller with load-more

package threadview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/listquery"
	"github.com/markalston/forum-client/internal/tui/icons"
	"github.com/markalston/forum-client/internal/tui/sortmenu"
	"github.com/markalston/forum-client/internal/tui/styles"
	"github.com/markalston/forum-client/internal/tui/widgets"
	"github.com/markalston/forum-client/internal/validate"
)

// Messages for the parent app
type (
	// BackMsg asks to return to the thread list
	BackMsg struct{}
	// FollowTagMsg asks to search for a tag
	FollowTagMsg struct{ Tag string }
	// EditThreadMsg asks to open the editor on the thread
	EditThreadMsg struct{ Thread client.Thread }
	// DeletedMsg reports that the thread was deleted
	DeletedMsg struct{ ID string }
	// LoginRequiredMsg asks the user to log in first
	LoginRequiredMsg struct{}
)

type loadedMsg struct {
	thread *client.Thread
	result listquery.Result[client.Comment]
	err    error
}

type commentsMsg struct {
	result listquery.Result[client.Comment]
}

type actionDoneMsg struct {
	notice string
	err    error
}

type threadDeletedMsg struct {
	err error
}

// pendingDelete is a delete waiting for "y"
type pendingDelete struct {
	commentID string // empty means the thread
}

// Model is the thread view screen
type Model struct {
	ctx      context.Context
	client   *client.Client
	id       string
	username string

	thread   *client.Thread
	err      error
	notice   string
	comments *listquery.Controller[client.Comment]

	sortMenu  *sortmenu.Menu
	composer  textarea.Model
	composing bool
	editingID string
	confirm   *pendingDelete

	cursor   int
	tagFocus int
	width    int
	height   int
}

// New creates the view for thread id. username is the logged-in user, if any.
func New(ctx context.Context, c *client.Client, id, username string) *Model {
	ta := textarea.New()
	ta.Placeholder = "Write a comment..."
	ta.CharLimit = 3000
	ta.ShowLineNumbers = false
	ta.SetHeight(4)

	return &Model{
		ctx:      ctx,
		client:   c,
		id:       id,
		username: username,
		comments: listquery.New(c.CommentFetcher(id), listquery.CommentSorts),
		composer: ta,
		tagFocus: -1,
	}
}

// ID returns the thread id
func (m *Model) ID() string {
	return m.id
}

// Thread returns the loaded thread, or nil
func (m *Model) Thread() *client.Thread {
	return m.thread
}

// Comments returns the comment list state
func (m *Model) Comments() listquery.State[client.Comment] {
	return m.comments.State()
}

// SetUser updates who is logged in, for ownership checks
func (m *Model) SetUser(username string) {
	m.username = username
}

// Capturing reports whether keys are going to the composer, sort menu or a prompt
func (m *Model) Capturing() bool {
	return m.composing || m.sortMenu != nil || m.confirm != nil
}

// SetSize updates the screen dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.composer.SetWidth(max(20, width-4))
}

// Init loads the thread and the first comment page together
func (m *Model) Init() tea.Cmd {
	return m.reload()
}

func (m *Model) reload() tea.Cmd {
	req := m.comments.GoToPage(1)
	ctx, c, id := m.ctx, m.client, m.id
	return func() tea.Msg {
		thread, res, err := c.ThreadWithComments(ctx, id, req)
		return loadedMsg{thread: thread, result: res, err: err}
	}
}

func (m *Model) runComments(req *listquery.Request[client.Comment]) tea.Cmd {
	if req == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return commentsMsg{result: req.Run(ctx)}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.comments.Apply(msg.result)
			return m, nil
		}
		m.err = nil
		m.thread = msg.thread
		if m.comments.Apply(msg.result) && msg.result.Mode == listquery.Replace {
			m.cursor = 0
		}
		m.clampTagFocus()
		return m, nil

	case commentsMsg:
		if m.comments.Apply(msg.result) && msg.result.Mode == listquery.Replace {
			m.cursor = 0
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.notice = ""
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = msg.notice
		return m, m.reload()

	case threadDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		id := m.id
		return m, func() tea.Msg { return DeletedMsg{ID: id} }

	case sortmenu.ChosenMsg:
		m.sortMenu = nil
		req, err := m.comments.CommitSort(msg.Label)
		if err != nil {
			return m, nil
		}
		return m, m.runComments(req)

	case sortmenu.CancelledMsg:
		m.sortMenu = nil
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.confirm != nil:
			return m.updateConfirm(msg)
		case m.sortMenu != nil:
			_, cmd := m.sortMenu.Update(msg)
			return m, cmd
		case m.composing:
			return m.updateComposer(msg)
		}
		return m.updateKeys(msg)
	}

	if m.composing {
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	comments := m.comments.State()
	m.notice = ""

	switch msg.String() {
	case "b", "esc":
		return m, func() tea.Msg { return BackMsg{} }
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(comments.Items)-1 {
			m.cursor++
		}
	case "m":
		return m, m.runComments(m.comments.LoadMore())
	case "r":
		return m, m.reload()
	case "s":
		m.sortMenu = sortmenu.New(listquery.CommentSorts, comments.SortKey)
	case "tab":
		if m.thread != nil && len(m.thread.Tags) > 0 {
			m.tagFocus = (m.tagFocus+2)%(len(m.thread.Tags)+1) - 1
		}
	case "enter":
		if m.thread != nil && m.tagFocus >= 0 {
			tag := m.thread.Tags[m.tagFocus]
			return m, func() tea.Msg { return FollowTagMsg{Tag: tag} }
		}
	case "c":
		return m.startComposer("", "")
	case "u":
		if c, ok := m.selectedComment(); ok && m.owns(c.Creator) {
			return m.startComposer(c.ID, c.Body)
		}
	case "x":
		if c, ok := m.selectedComment(); ok && m.owns(c.Creator) {
			m.confirm = &pendingDelete{commentID: c.ID}
		}
	case "e":
		if m.thread != nil && m.owns(m.thread.Creator) {
			thread := *m.thread
			return m, func() tea.Msg { return EditThreadMsg{Thread: thread} }
		}
	case "d":
		if m.thread != nil && m.owns(m.thread.Creator) {
			m.confirm = &pendingDelete{}
		}
	}
	return m, nil
}

func (m *Model) owns(creator string) bool {
	return m.username != "" && creator == m.username
}

func (m *Model) selectedComment() (client.Comment, bool) {
	items := m.comments.State().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return client.Comment{}, false
	}
	return items[m.cursor], true
}

func (m *Model) clampTagFocus() {
	if m.thread == nil || m.tagFocus >= len(m.thread.Tags) {
		m.tagFocus = -1
	}
}

func (m *Model) startComposer(commentID, body string) (tea.Model, tea.Cmd) {
	if m.username == "" {
		return m, func() tea.Msg { return LoginRequiredMsg{} }
	}
	m.composing = true
	m.editingID = commentID
	m.composer.SetValue(body)
	m.composer.Focus()
	return m, textarea.Blink
}

func (m *Model) stopComposer() {
	m.composing = false
	m.editingID = ""
	m.composer.Reset()
	m.composer.Blur()
}

func (m *Model) updateComposer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopComposer()
		return m, nil
	case "ctrl+s":
		return m.submitComment()
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m *Model) submitComment() (tea.Model, tea.Cmd) {
	body := strings.TrimSpace(m.composer.Value())
	if err := validate.CommentBody(body); err != nil {
		m.err = err
		return m, nil
	}

	ctx, c, threadID, editingID := m.ctx, m.client, m.id, m.editingID
	m.stopComposer()
	m.err = nil
	return m, func() tea.Msg {
		if editingID != "" {
			return actionDoneMsg{notice: "Comment updated", err: c.UpdateComment(ctx, editingID, body)}
		}
		_, err := c.CreateComment(ctx, threadID, body)
		return actionDoneMsg{notice: "Comment posted", err: err}
	}
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.confirm
	m.confirm = nil
	if msg.String() != "y" {
		return m, nil
	}

	ctx, c, id := m.ctx, m.client, m.id
	if pending.commentID == "" {
		return m, func() tea.Msg {
			return threadDeletedMsg{err: c.DeleteThread(ctx, id)}
		}
	}
	commentID := pending.commentID
	return m, func() tea.Msg {
		return actionDoneMsg{notice: "Comment deleted", err: c.DeleteComment(ctx, commentID)}
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.thread == nil {
		if m.err != nil {
			return m.renderError()
		}
		return styles.Meta.Render("Loading thread...")
	}

	t := m.thread
	density := widgets.DensityForWidth(m.width)
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Thread.String() + " " + t.Title))
	sb.WriteString("\n")
	meta := fmt.Sprintf("%s %s · %s", icons.User.String(), t.Creator, t.CreatedTime.Local().Format("Jan 2 2006 15:04"))
	if t.Edited() {
		meta += " · edited"
	}
	sb.WriteString(styles.Meta.Render(meta) + "\n")
	sb.WriteString(styles.Meta.Render(icons.Tag.String()+" ") + widgets.Chips(t.Tags, m.tagFocus) + "\n\n")
	sb.WriteString(lipgloss.NewStyle().Width(max(20, m.width-4)).Render(t.Body))
	sb.WriteString("\n\n")

	comments := m.comments.State()
	heading := fmt.Sprintf("%s %d comments", icons.Comment.String(), t.NumComments)
	sb.WriteString(styles.ValueStyle.Render(heading) + "  " +
		widgets.Button("s", comments.SortKey, density, m.sortMenu != nil) + "  " +
		widgets.Button("c", "Comment", density, m.composing) + "\n")

	if m.sortMenu != nil {
		sb.WriteString(m.sortMenu.View() + "\n")
	}
	if m.composing {
		label := "New comment"
		if m.editingID != "" {
			label = "Editing comment"
		}
		sb.WriteString(styles.Meta.Render(label+" (ctrl+s save, esc cancel)") + "\n")
		sb.WriteString(m.composer.View() + "\n")
	}

	if len(comments.Items) == 0 && !comments.IsLoading {
		sb.WriteString(styles.Meta.Render("No comments yet.") + "\n")
	}
	for i, c := range comments.Items {
		sb.WriteString(m.renderComment(c, i == m.cursor) + "\n")
	}
	if comments.Page < comments.TotalPages {
		sb.WriteString(styles.Meta.Render(fmt.Sprintf("m load more (%d of %d pages)", comments.Page, comments.TotalPages)) + "\n")
	}
	if comments.IsLoading {
		sb.WriteString(styles.Meta.Render(icons.Refresh.String()+" loading") + "\n")
	}

	if m.confirm != nil {
		what := "this thread and all its comments"
		if m.confirm.commentID != "" {
			what = "this comment"
		}
		sb.WriteString(styles.StatusWarning.Render("Delete "+what+"? y to confirm, any other key to cancel") + "\n")
	}
	if m.notice != "" {
		sb.WriteString(styles.StatusOK.Render(icons.CheckOK.String()+" "+m.notice) + "\n")
	}
	if m.err != nil || comments.Err != nil {
		sb.WriteString(m.renderError())
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m *Model) renderComment(c client.Comment, selected bool) string {
	header := fmt.Sprintf("%s %s · %s", icons.User.String(), c.Creator, c.CreatedTime.Local().Format("Jan 2 15:04"))
	if c.Edited() {
		header += " · edited"
	}
	prefix := "  "
	if selected {
		prefix = "> "
	}
	body := lipgloss.NewStyle().PaddingLeft(4).Width(max(20, m.width-4)).Render(c.Body)
	if selected {
		return styles.Selected.Render(prefix+header) + "\n" + body
	}
	return styles.Meta.Render(prefix+header) + "\n" + body
}

func (m *Model) renderError() string {
	err := m.err
	if err == nil {
		err = m.comments.State().Err
	}
	text := err.Error()
	if errors.Is(err, client.ErrNotLoggedIn) {
		text = "Log in first (press l)"
	}
	return styles.StatusCritical.Render(icons.Critical.String() + " " + text)
}
