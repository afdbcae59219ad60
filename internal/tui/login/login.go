// ABOUTME: Login screen: credentials form followed by an optional 2FA code form
// ABOUTME: Emits messages for the app to act on; performs no network calls itself

package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/flyair/flyair-cli/internal/tui/icons"
	"github.com/flyair/flyair-cli/internal/tui/styles"
)

// Phase is the login step being shown.
type Phase int

const (
	PhaseCredentials Phase = iota
	PhaseTwoFactor
)

// SubmitMsg carries the entered credentials.
type SubmitMsg struct {
	Username string
	Password string
}

// CodeMsg carries the entered two-factor code.
type CodeMsg struct {
	Code string
}

// Login is the login screen model
type Login struct {
	phase    Phase
	username string
	password string
	code     string
	err      string
	notice   string
	form     *huh.Form
}

// New returns a login screen. notice is shown above the form, e.g. after a
// session expired.
func New(notice string) *Login {
	l := &Login{notice: notice}
	l.form = l.credentialsForm()
	return l
}

func (l *Login) credentialsForm() *huh.Form {
	l.password = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&l.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password).
				Validate(required("password")),
		).Title(icons.Lock.String()+" Sign in to FlyAir"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func (l *Login) codeForm() *huh.Form {
	l.code = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Authentication code").
				Description("Enter the 6-digit code from your authenticator app").
				CharLimit(8).
				Value(&l.code).
				Validate(required("code")),
		).Title(icons.Lock.String()+" Two-factor verification"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// Phase returns the current step.
func (l *Login) Phase() Phase {
	return l.phase
}

// RequireTwoFactor switches to the code form.
func (l *Login) RequireTwoFactor() tea.Cmd {
	l.phase = PhaseTwoFactor
	l.err = ""
	l.form = l.codeForm()
	return l.form.Init()
}

// Fail shows err and reopens the current form.
func (l *Login) Fail(err error) tea.Cmd {
	l.err = err.Error()
	if l.phase == PhaseTwoFactor {
		l.form = l.codeForm()
	} else {
		l.form = l.credentialsForm()
	}
	return l.form.Init()
}

// Reset returns to the credentials form, keeping the username.
func (l *Login) Reset() tea.Cmd {
	l.phase = PhaseCredentials
	l.form = l.credentialsForm()
	return l.form.Init()
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" && l.phase == PhaseTwoFactor {
		return l, l.Reset()
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.err = ""
		l.notice = ""
		if l.phase == PhaseTwoFactor {
			code := strings.TrimSpace(l.code)
			return l, func() tea.Msg { return CodeMsg{Code: code} }
		}
		username, password := strings.TrimSpace(l.username), l.password
		return l, func() tea.Msg { return SubmitMsg{Username: username, Password: password} }
	}
	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder
	if l.notice != "" {
		sb.WriteString(styles.StatusWarning.Render(icons.Warning.String() + " " + l.notice))
		sb.WriteString("\n\n")
	}
	sb.WriteString(l.form.View())
	if l.err != "" {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Danger).Render(icons.Critical.String() + " " + l.err))
	}
	return sb.String()
}
