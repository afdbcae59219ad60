// ABOUTME: Main menu shown after login
// ABOUTME: Offers traveler actions and, for administrators, the admin dashboard

package menu

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/flyair/flyair-cli/internal/tui/icons"
	"github.com/flyair/flyair-cli/internal/tui/styles"
)

// Action is a menu entry.
type Action int

const (
	ActionSearch Action = iota
	ActionBookings
	ActionTickets
	ActionProfile
	ActionAdmin
	ActionLogout
	ActionQuit
)

// String returns the menu label for the action.
func (a Action) String() string {
	switch a {
	case ActionSearch:
		return "Search flights"
	case ActionBookings:
		return "My bookings"
	case ActionTickets:
		return "My tickets"
	case ActionProfile:
		return "Profile"
	case ActionAdmin:
		return "Admin dashboard"
	case ActionLogout:
		return "Log out"
	case ActionQuit:
		return "Quit"
	default:
		return "unknown"
	}
}

func (a Action) icon() icons.Icon {
	switch a {
	case ActionSearch:
		return icons.Search
	case ActionBookings:
		return icons.Booking
	case ActionTickets:
		return icons.Ticket
	case ActionProfile:
		return icons.User
	case ActionAdmin:
		return icons.Admin
	case ActionLogout:
		return icons.Logout
	default:
		return icons.Quit
	}
}

// SelectedMsg is sent when the user picks an action
type SelectedMsg struct {
	Action Action
}

// Menu is the post-login action menu
type Menu struct {
	greeting string
	isAdmin  bool
	choice   Action
	form     *huh.Form
}

// New creates a menu greeting name. Admin-only entries appear when isAdmin is set.
func New(name string, isAdmin bool) *Menu {
	m := &Menu{greeting: name, isAdmin: isAdmin}
	m.form = m.buildForm()
	return m
}

// Actions returns the entries in display order.
func (m *Menu) Actions() []Action {
	actions := []Action{ActionSearch, ActionBookings, ActionTickets, ActionProfile}
	if m.isAdmin {
		actions = append(actions, ActionAdmin)
	}
	return append(actions, ActionLogout, ActionQuit)
}

func (m *Menu) buildForm() *huh.Form {
	var options []huh.Option[Action]
	for _, a := range m.Actions() {
		options = append(options, huh.NewOption(a.icon().String()+"  "+a.String(), a))
	}
	m.choice = ActionSearch

	title := "Where to?"
	if m.greeting != "" {
		title = "Welcome back, " + m.greeting
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title(title).
				Options(options...).
				Value(&m.choice),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		choice := m.choice
		m.form = m.buildForm()
		return m, tea.Batch(m.form.Init(), func() tea.Msg { return SelectedMsg{Action: choice} })
	}
	return m, cmd
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}
