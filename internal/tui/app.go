// ABOUTME: Root bubbletea model for the FlyAir TUI
// ABOUTME: Routes between screens, runs backend calls as commands, and drops stale results

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/flyair/flyair-cli/internal/booking"
	"github.com/flyair/flyair-cli/internal/client"
	"github.com/flyair/flyair-cli/internal/session"
	"github.com/flyair/flyair-cli/internal/tui/dashboard"
	"github.com/flyair/flyair-cli/internal/tui/icons"
	"github.com/flyair/flyair-cli/internal/tui/listview"
	"github.com/flyair/flyair-cli/internal/tui/login"
	"github.com/flyair/flyair-cli/internal/tui/menu"
	"github.com/flyair/flyair-cli/internal/tui/recentsearches"
	"github.com/flyair/flyair-cli/internal/tui/search"
	"github.com/flyair/flyair-cli/internal/tui/styles"
	"github.com/flyair/flyair-cli/internal/tui/wizard"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenMenu
	ScreenSearch
	ScreenFlights
	ScreenWizard
	ScreenBookings
	ScreenTickets
	ScreenProfile
	ScreenAdmin
)

// Layout constants
const (
	minTerminalWidth = 80
	frameOverhead    = 8 // header, footer, notice line, and table chrome
)

const expiredNotice = "Your session has expired. Please log in again."

// Deps are the collaborators the app drives.
type Deps struct {
	Client  *client.Client
	Session *session.Manager
	Recent  *recentsearches.Recent
}

// Results of asynchronous commands. Those tied to the session carry the
// generation they were started under and are dropped if it has changed.

type authResultMsg struct {
	resp *client.AuthenticationResponse
	err  error
}

type sessionExpiredMsg struct{}

type profileRefreshedMsg struct {
	gen uint64
	err error
}

type flightsLoadedMsg struct {
	gen     uint64
	flights []client.Flight
	err     error
}

type seatsLoadedMsg struct {
	gen   uint64
	draft *booking.Wizard
	seats []client.Seat
	err   error
}

type bookingSubmittedMsg struct {
	draft   *booking.Wizard
	booking *client.Booking
	err     error
}

type tripsLoadedMsg struct {
	gen      uint64
	next     Screen
	bookings []client.Booking
	tickets  []client.Ticket
	err      error
}

type ticketUpdatedMsg struct {
	gen    uint64
	action string
	ticket *client.Ticket
	err    error
}

type statsLoadedMsg struct {
	gen   uint64
	stats *client.DashboardStats
	err   error
}

// App is the root model for the TUI
type App struct {
	client  *client.Client
	session *session.Manager
	recent  *recentsearches.Recent

	screen Screen
	width  int
	height int
	busy   bool

	notice      string
	noticeLevel lipgloss.Style

	tempToken string
	flights   []client.Flight
	bookings  []client.Booking
	tickets   []client.Ticket
	draft     *booking.Wizard

	// Child models
	spinner   spinner.Model
	loginView *login.Login
	menu      *menu.Menu
	search    *search.Search
	list      *listview.List
	wizard    *wizard.Wizard
	dashboard *dashboard.Dashboard
}

// New creates the app. The session must already be initialized.
func New(deps Deps) *App {
	a := &App{
		client:  deps.Client,
		session: deps.Session,
		recent:  deps.Recent,
		width:   minTerminalWidth,
		height:  24,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Accent)),
		),
	}
	if a.session.State().IsAuthenticated {
		a.showMenu()
	} else {
		a.screen = ScreenLogin
		a.loginView = login.New("")
	}
	return a
}

// Screen returns the active screen
func (a *App) Screen() Screen {
	return a.screen
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin {
		return a.loginView.Init()
	}
	return tea.Batch(a.menu.Init(), a.refreshProfile())
}

func (a *App) generation() uint64 {
	_, gen := a.session.Credential()
	return gen
}

func (a *App) stale(gen uint64) bool {
	if gen != a.generation() {
		slog.Debug("Dropping result from a previous session")
		return true
	}
	return false
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.list != nil {
			a.list.SetHeight(a.contentHeight())
		}
		if a.wizard != nil {
			a.wizard.SetWidth(a.frameWidth())
		}
		if a.dashboard != nil {
			a.dashboard.SetSize(a.frameWidth())
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.busy {
			return a, nil
		}
		a.notice = ""
		return a.updateScreen(msg)

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionExpiredMsg:
		return a, a.toLogin(expiredNotice)

	case login.SubmitMsg:
		return a, a.startBusy(a.authenticate(msg.Username, msg.Password))

	case login.CodeMsg:
		return a, a.startBusy(a.verifyCode(msg.Code))

	case authResultMsg:
		a.busy = false
		return a, a.handleAuth(msg)

	case menu.SelectedMsg:
		return a.handleMenu(msg.Action)

	case search.SearchMsg:
		if a.recent != nil {
			if err := a.recent.Add(msg.Filters); err != nil {
				slog.Warn("Failed to save recent search", "error", err)
			}
		}
		return a, a.startBusy(a.searchFlights(msg.Filters))

	case flightsLoadedMsg:
		a.busy = false
		if a.stale(msg.gen) {
			return a, nil
		}
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.flights = msg.flights
		a.list = listview.Flights(a.flights, a.contentHeight())
		a.screen = ScreenFlights
		return a, nil

	case seatsLoadedMsg:
		a.busy = false
		if a.stale(msg.gen) || msg.draft != a.draft {
			return a, nil
		}
		if msg.err != nil {
			a.draft.Abandon()
			a.draft = nil
			return a, a.fail(msg.err)
		}
		name := ""
		if u := a.session.State().User; u != nil {
			name = u.FullName()
		}
		a.wizard = wizard.New(a.draft, msg.seats, name)
		a.wizard.SetWidth(a.frameWidth())
		a.screen = ScreenWizard
		return a, a.wizard.Init()

	case wizard.SubmitMsg:
		if a.busy || a.draft == nil {
			return a, nil
		}
		return a, a.startBusy(a.submitBooking(a.draft))

	case wizard.CancelledMsg:
		if a.draft != nil {
			a.draft.Abandon()
		}
		a.draft, a.wizard = nil, nil
		a.list = listview.Flights(a.flights, a.contentHeight())
		a.screen = ScreenFlights
		return a, nil

	case bookingSubmittedMsg:
		a.busy = false
		return a, a.handleBooking(msg)

	case tripsLoadedMsg:
		a.busy = false
		if a.stale(msg.gen) {
			return a, nil
		}
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.bookings, a.tickets = msg.bookings, msg.tickets
		a.showTrips(msg.next)
		return a, nil

	case ticketUpdatedMsg:
		a.busy = false
		if a.stale(msg.gen) {
			return a, nil
		}
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.replaceTicket(msg.ticket)
		a.setNotice(fmt.Sprintf("Ticket #%s %s", msg.ticket.ID, msg.action), styles.StatusOK)
		return a, nil

	case statsLoadedMsg:
		a.busy = false
		if a.stale(msg.gen) {
			return a, nil
		}
		if msg.err != nil {
			return a, a.fail(msg.err)
		}
		a.dashboard = dashboard.New(msg.stats, a.frameWidth())
		a.screen = ScreenAdmin
		return a, nil

	case profileRefreshedMsg:
		if a.screen == ScreenProfile {
			a.busy = false
		}
		if a.stale(msg.gen) {
			return a, nil
		}
		if msg.err != nil {
			slog.Debug("Profile refresh failed", "error", msg.err)
		}
		if a.screen == ScreenMenu {
			a.showMenu()
			return a, a.menu.Init()
		}
		return a, nil
	}

	// huh forms need their internal messages
	return a.updateScreen(msg)
}

func (a *App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)

	switch a.screen {
	case ScreenLogin:
		_, cmd := a.loginView.Update(msg)
		return a, cmd

	case ScreenMenu:
		if isKey && key.String() == "q" {
			return a, tea.Quit
		}
		_, cmd := a.menu.Update(msg)
		return a, cmd

	case ScreenSearch:
		if isKey && key.String() == "esc" {
			return a, a.backToMenu()
		}
		_, cmd := a.search.Update(msg)
		return a, cmd

	case ScreenWizard:
		if a.wizard == nil {
			return a, nil
		}
		_, cmd := a.wizard.Update(msg)
		return a, cmd

	case ScreenFlights:
		if !isKey {
			return a, nil
		}
		switch key.String() {
		case "esc":
			return a, a.openSearch()
		case "enter":
			return a, a.startBooking()
		}
		return a, a.list.Update(msg)

	case ScreenBookings, ScreenTickets:
		if !isKey {
			return a, nil
		}
		switch key.String() {
		case "esc":
			return a, a.backToMenu()
		case "r":
			return a, a.startBusy(a.loadTrips(a.screen))
		case "tab":
			if a.screen == ScreenBookings {
				a.showTrips(ScreenTickets)
			} else {
				a.showTrips(ScreenBookings)
			}
			return a, nil
		case "c":
			if a.screen == ScreenTickets {
				return a, a.ticketAction("checked in")
			}
		case "x":
			if a.screen == ScreenTickets {
				return a, a.ticketAction("cancelled")
			}
		}
		return a, a.list.Update(msg)

	case ScreenProfile:
		if isKey {
			switch key.String() {
			case "esc":
				return a, a.backToMenu()
			case "r":
				return a, a.startBusy(a.refreshProfile())
			}
		}
		return a, nil

	case ScreenAdmin:
		if isKey {
			switch key.String() {
			case "esc":
				return a, a.backToMenu()
			case "r":
				return a, a.startBusy(a.loadStats())
			}
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleMenu(action menu.Action) (tea.Model, tea.Cmd) {
	switch action {
	case menu.ActionSearch:
		return a, a.openSearch()
	case menu.ActionBookings:
		return a, a.startBusy(a.loadTrips(ScreenBookings))
	case menu.ActionTickets:
		return a, a.startBusy(a.loadTrips(ScreenTickets))
	case menu.ActionProfile:
		a.screen = ScreenProfile
		return a, a.startBusy(a.refreshProfile())
	case menu.ActionAdmin:
		if !a.session.State().IsAdmin {
			return a, nil
		}
		return a, a.startBusy(a.loadStats())
	case menu.ActionLogout:
		if err := a.session.Logout(context.Background()); err != nil {
			slog.Warn("Logout did not clear storage", "error", err)
		}
		return a, a.toLogin("You have been logged out.")
	case menu.ActionQuit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleAuth(msg authResultMsg) tea.Cmd {
	if msg.err != nil {
		return a.loginView.Fail(msg.err)
	}
	if msg.resp.RequiresTwoFactor {
		a.tempToken = msg.resp.TemporaryToken
		return a.loginView.RequireTwoFactor()
	}
	a.tempToken = ""
	if err := a.session.Login(context.Background(), msg.resp.AccessToken, msg.resp.User); err != nil {
		if errors.Is(err, session.ErrIncomplete) {
			return a.loginView.Fail(err)
		}
		a.setNotice("Signed in, but the session will not survive a restart: "+err.Error(), styles.StatusWarning)
	}
	a.loginView = nil
	a.showMenu()
	return a.menu.Init()
}

func (a *App) handleBooking(msg bookingSubmittedMsg) tea.Cmd {
	if msg.draft != a.draft || errors.Is(msg.err, booking.ErrAbandoned) {
		return nil
	}
	if msg.err != nil {
		if client.IsUnauthorized(msg.err) {
			return nil
		}
		a.setNotice("Booking failed: "+msg.err.Error(), styles.StatusCritical)
		return a.wizard.Fail(msg.err)
	}
	a.draft, a.wizard = nil, nil
	a.setNotice(fmt.Sprintf("Booking #%s confirmed", msg.booking.ID), styles.StatusOK)
	return a.startBusy(a.loadTrips(ScreenBookings))
}

// fail shows err as a dismissible notice. An unauthorized error that was not
// already handled by the session returns to the login screen.
func (a *App) fail(err error) tea.Cmd {
	if client.IsUnauthorized(err) {
		return a.toLogin(expiredNotice)
	}
	a.setNotice(err.Error(), styles.StatusCritical)
	return nil
}

func (a *App) setNotice(text string, level lipgloss.Style) {
	a.notice = text
	a.noticeLevel = level
}

func (a *App) startBusy(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	a.busy = true
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a *App) toLogin(notice string) tea.Cmd {
	if a.screen == ScreenLogin {
		return nil
	}
	if a.draft != nil {
		a.draft.Abandon()
	}
	a.busy = false
	a.draft, a.wizard, a.list, a.dashboard, a.search = nil, nil, nil, nil, nil
	a.flights, a.bookings, a.tickets = nil, nil, nil
	a.tempToken = ""
	a.screen = ScreenLogin
	a.loginView = login.New(notice)
	return a.loginView.Init()
}

func (a *App) showMenu() {
	st := a.session.State()
	name := ""
	if st.User != nil {
		name = st.User.FullName()
	}
	a.menu = menu.New(name, st.IsAdmin)
	a.screen = ScreenMenu
}

func (a *App) backToMenu() tea.Cmd {
	a.list, a.search, a.dashboard = nil, nil, nil
	a.showMenu()
	return a.menu.Init()
}

func (a *App) openSearch() tea.Cmd {
	var last *client.SearchFilters
	if a.recent != nil {
		if recent := a.recent.List(); len(recent) > 0 {
			last = &recent[0]
		}
	}
	a.list = nil
	a.search = search.New(last)
	a.screen = ScreenSearch
	return a.search.Init()
}

func (a *App) showTrips(screen Screen) {
	if screen == ScreenTickets {
		a.list = listview.Tickets(a.tickets, a.contentHeight())
	} else {
		a.list = listview.Bookings(a.bookings, a.contentHeight())
	}
	a.screen = screen
}

func (a *App) replaceTicket(t *client.Ticket) {
	for i := range a.tickets {
		if a.tickets[i].ID == t.ID {
			// Action responses may omit the embedded booking.
			if t.Booking == nil {
				t.Booking = a.tickets[i].Booking
			}
			a.tickets[i] = *t
		}
	}
	if a.list != nil && a.screen == ScreenTickets {
		a.list.SetRows(listview.TicketRows(a.tickets))
	}
}

// Commands

func (a *App) authenticate(username, password string) tea.Cmd {
	c := a.client
	return func() tea.Msg {
		resp, err := c.Login(context.Background(), username, password)
		return authResultMsg{resp: resp, err: err}
	}
}

func (a *App) verifyCode(code string) tea.Cmd {
	c, temp := a.client, a.tempToken
	return func() tea.Msg {
		resp, err := c.VerifyTwoFactor(context.Background(), temp, code)
		return authResultMsg{resp: resp, err: err}
	}
}

func (a *App) refreshProfile() tea.Cmd {
	gen, s := a.generation(), a.session
	return func() tea.Msg {
		return profileRefreshedMsg{gen: gen, err: s.RefreshProfile(context.Background())}
	}
}

func (a *App) searchFlights(filters client.SearchFilters) tea.Cmd {
	gen, c := a.generation(), a.client
	return func() tea.Msg {
		page, err := c.SearchFlights(context.Background(), filters)
		return flightsLoadedMsg{gen: gen, flights: page.Content, err: err}
	}
}

func (a *App) startBooking() tea.Cmd {
	i := a.list.Cursor()
	if i < 0 || i >= len(a.flights) {
		return nil
	}
	draft, err := booking.Start(&a.flights[i], a.client)
	if err != nil {
		return a.fail(err)
	}
	a.draft = draft

	gen, c, flightID := a.generation(), a.client, a.flights[i].ID
	return a.startBusy(func() tea.Msg {
		seats, err := c.AvailableSeats(context.Background(), flightID)
		return seatsLoadedMsg{gen: gen, draft: draft, seats: seats, err: err}
	})
}

func (a *App) submitBooking(draft *booking.Wizard) tea.Cmd {
	return func() tea.Msg {
		b, err := draft.Submit(context.Background())
		return bookingSubmittedMsg{draft: draft, booking: b, err: err}
	}
}

func (a *App) loadTrips(next Screen) tea.Cmd {
	gen, c := a.generation(), a.client
	return func() tea.Msg {
		var bookings []client.Booking
		var tickets []client.Ticket

		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			bookings, err = c.MyBookings(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			tickets, err = c.MyTickets(ctx)
			return err
		})
		err := g.Wait()
		return tripsLoadedMsg{gen: gen, next: next, bookings: bookings, tickets: tickets, err: err}
	}
}

func (a *App) ticketAction(action string) tea.Cmd {
	i := a.list.Cursor()
	if i < 0 || i >= len(a.tickets) {
		return nil
	}
	t := a.tickets[i]

	var call func(context.Context, client.ID) (*client.Ticket, error)
	switch {
	case action == "checked in" && t.CanCheckIn():
		call = a.client.CheckIn
	case action == "cancelled" && t.CanCancel():
		call = a.client.CancelTicket
	default:
		a.setNotice(fmt.Sprintf("Ticket #%s is %s", t.ID, strings.ToLower(string(t.Status))), styles.StatusWarning)
		return nil
	}

	gen := a.generation()
	return a.startBusy(func() tea.Msg {
		updated, err := call(context.Background(), t.ID)
		return ticketUpdatedMsg{gen: gen, action: action, ticket: updated, err: err}
	})
}

func (a *App) loadStats() tea.Cmd {
	gen, c := a.generation(), a.client
	return func() tea.Msg {
		stats, err := c.DashboardStats(context.Background())
		return statsLoadedMsg{gen: gen, stats: stats, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenLogin:
		content = a.loginView.View()
	case ScreenMenu:
		content = a.menu.View()
	case ScreenSearch:
		content = a.search.View()
	case ScreenFlights, ScreenBookings, ScreenTickets:
		if a.list != nil {
			content = a.list.View()
		}
	case ScreenWizard:
		if a.wizard != nil {
			content = a.wizard.View()
		}
	case ScreenProfile:
		content = dashboard.Profile(a.session.State().User)
	case ScreenAdmin:
		if a.dashboard != nil {
			content = a.dashboard.View()
		}
	}

	if a.busy {
		content = a.spinner.View() + " " + styles.Subtitle.Render("Working...") + "\n" + content
	}
	if a.notice != "" {
		content = a.noticeLevel.Render(a.notice) + "\n\n" + content
	}
	return a.wrapWithFrame(content)
}

// frameWidth is the terminal width minus one column, never below the minimum.
func (a *App) frameWidth() int {
	return max(minTerminalWidth, a.width-1)
}

func (a *App) contentHeight() int {
	return a.height - frameOverhead
}

// renderHeader creates the header bar with app branding and the signed-in user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	left := fmt.Sprintf(" %s %s ", icons.App, titleStyle.Render("FlyAir"))

	right := ""
	if st := a.session.State(); st.IsAuthenticated && a.screen != ScreenLogin {
		label := st.User.Username
		if st.IsAdmin {
			label += " (admin)"
		}
		right = " " + contextStyle.Render(icons.User.String()+" "+label) + " "
	}

	fill := max(0, width-4-lipgloss.Width(left)-lipgloss.Width(right))
	return borderStyle.Render("╭─" + left + strings.Repeat("─", fill) + right + "─╮")
}

// renderFooter creates the footer with keyboard shortcuts for the screen
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Enter Submit", "Esc Back", "^C Quit"}
	case ScreenMenu:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenSearch:
		shortcuts = []string{"Tab Next", "Enter Search", "Esc Menu"}
	case ScreenFlights:
		shortcuts = []string{"↑↓ Navigate", "Enter Book", "Esc Search"}
	case ScreenWizard:
		shortcuts = []string{"↑↓ Select", "Enter Continue", "Esc Back"}
	case ScreenBookings:
		shortcuts = []string{"Tab Tickets", "r Refresh", "Esc Menu"}
	case ScreenTickets:
		shortcuts = []string{"c Check-in", "x Cancel", "Tab Bookings", "r Refresh", "Esc Menu"}
	case ScreenProfile, ScreenAdmin:
		shortcuts = []string{"r Refresh", "Esc Menu"}
	}

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
	}

	left := " " + strings.Join(styled, "  ") + " "
	fill := max(0, width-4-lipgloss.Width(left))
	return borderStyle.Render("╰─" + left + strings.Repeat("─", fill) + "─╯")
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

// Run starts the TUI and blocks until it exits. A session expiry reported by
// the request pipeline switches the app to the login screen.
func Run(ctx context.Context, deps Deps) error {
	app := New(deps)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	deps.Session.SetOnExpired(func() {
		p.Send(sessionExpiredMsg{})
	})
	defer deps.Session.SetOnExpired(nil)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
