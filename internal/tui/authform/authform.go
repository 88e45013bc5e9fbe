// ABOUTME: Login and signup form as a bubbletea model wrapping a huh form
// ABOUTME: Credentials are validated locally before they are submitted

package authform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/tui/icons"
	"github.com/markalston/forum-client/internal/tui/styles"
	"github.com/markalston/forum-client/internal/validate"
)

// Mode selects login or signup
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// String returns the action name for the mode
func (m Mode) String() string {
	if m == ModeSignup {
		return "Sign up"
	}
	return "Log in"
}

// SubmittedMsg carries validated credentials
type SubmittedMsg struct {
	Mode        Mode
	Credentials client.Credentials
}

// CancelledMsg is sent when the form is closed
type CancelledMsg struct{}

// Form collects a username and password
type Form struct {
	mode Mode
	form *huh.Form
	err  string

	username string
	password string
}

// New creates a form for mode
func New(mode Mode) *Form {
	f := &Form{mode: mode}
	f.form = f.createForm()
	return f
}

func (f *Form) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				CharLimit(30).
				Value(&f.username).
				Validate(validate.Username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(validate.Password),
		).Title(f.mode.String()),
	).WithTheme(styles.FormTheme())
}

// Mode returns the form's mode
func (f *Form) Mode() Mode {
	return f.mode
}

// Retry shows a backend rejection and reopens the form. The password is cleared.
func (f *Form) Retry(msg string) tea.Cmd {
	f.err = msg
	f.password = ""
	f.form = f.createForm()
	return f.form.Init()
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}
	if f.form.State == huh.StateCompleted {
		return f.submit()
	}
	return f, cmd
}

func (f *Form) submit() (tea.Model, tea.Cmd) {
	creds := client.Credentials{Username: strings.TrimSpace(f.username), Password: f.password}
	if err := validate.Credentials(creds.Username, creds.Password); err != nil {
		return f, f.Retry(err.Error())
	}

	f.err = ""
	mode := f.mode
	return f, func() tea.Msg {
		return SubmittedMsg{Mode: mode, Credentials: creds}
	}
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Login.String() + " " + f.mode.String()))
	sb.WriteString("\n")
	if f.err != "" {
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String()+" "+f.err) + "\n\n")
	}
	sb.WriteString(f.form.View())
	return sb.String()
}
