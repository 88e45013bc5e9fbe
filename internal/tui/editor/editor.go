// ABOUTME: Thread editor as a bubbletea model wrapping a huh form
// ABOUTME: Creates new threads or edits existing ones with local validation

package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/tui/icons"
	"github.com/markalston/forum-client/internal/tui/styles"
	"github.com/markalston/forum-client/internal/validate"
)

// SubmittedMsg carries a validated thread. ThreadID is empty for new threads.
type SubmittedMsg struct {
	ThreadID string
	Input    client.ThreadInput
}

// CancelledMsg is sent when the editor is closed without saving
type CancelledMsg struct{}

// Editor edits a thread's title, body and tags
type Editor struct {
	threadID string
	form     *huh.Form
	width    int
	err      string

	// Form field values
	title string
	body  string
	tags  string
}

// New creates an editor. A nil thread starts a new one.
func New(existing *client.Thread) *Editor {
	e := &Editor{}
	if existing != nil {
		e.threadID = existing.ID
		e.title = existing.Title
		e.body = existing.Body
		e.tags = strings.Join(existing.Tags, ", ")
	}
	e.form = e.createForm()
	return e
}

func (e *Editor) createForm() *huh.Form {
	heading := "New thread"
	if e.threadID != "" {
		heading = "Edit thread"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				CharLimit(100).
				Value(&e.title).
				Validate(validate.ThreadTitle),
			huh.NewText().
				Title("Body").
				CharLimit(3000).
				Lines(8).
				Value(&e.body).
				Validate(validate.ThreadBody),
			huh.NewInput().
				Title("Tags").
				Description("Comma separated, at most 3").
				Placeholder("e.g., bug, build system").
				Value(&e.tags),
		).Title(heading),
	).WithTheme(styles.FormTheme())
}

// Editing reports whether an existing thread is being edited
func (e *Editor) Editing() bool {
	return e.threadID != ""
}

// Input returns the trimmed thread with normalized tags
func (e *Editor) Input() client.ThreadInput {
	return client.ThreadInput{
		Title: strings.TrimSpace(e.title),
		Body:  strings.TrimSpace(e.body),
		Tags:  validate.SplitTags(e.tags),
	}
}

// Retry shows a save failure and reopens the form with the same values
func (e *Editor) Retry(msg string) tea.Cmd {
	e.err = msg
	e.form = e.createForm()
	return e.form.Init()
}

// Init implements tea.Model
func (e *Editor) Init() tea.Cmd {
	return e.form.Init()
}

// Update implements tea.Model
func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return e, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	if e.form.State == huh.StateCompleted {
		return e.submit()
	}
	return e, cmd
}

// submit re-checks the trimmed values before handing them off
func (e *Editor) submit() (tea.Model, tea.Cmd) {
	input := e.Input()
	if err := validate.Thread(input.Title, input.Body); err != nil {
		return e, e.Retry(err.Error())
	}

	e.err = ""
	id := e.threadID
	return e, func() tea.Msg {
		return SubmittedMsg{ThreadID: id, Input: input}
	}
}

// View implements tea.Model
func (e *Editor) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Edit.String() + " " + e.heading()))
	sb.WriteString("\n")
	if e.err != "" {
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String()+" "+e.err) + "\n\n")
	}
	sb.WriteString(e.form.View())
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render("Tags are lower-cased and spaces become dashes."))
	return sb.String()
}

func (e *Editor) heading() string {
	if e.Editing() {
		return "Editing " + e.threadID
	}
	return "Start a discussion"
}
