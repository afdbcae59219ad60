// ABOUTME: Booking wizard screen: seat, passenger, and payment steps
// ABOUTME: Renders progress and a running price summary around a booking draft

package wizard

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/flyair/flyair-cli/internal/booking"
	"github.com/flyair/flyair-cli/internal/client"
	"github.com/flyair/flyair-cli/internal/tui/icons"
	"github.com/flyair/flyair-cli/internal/tui/styles"
	"github.com/flyair/flyair-cli/internal/tui/widgets"
)

// SubmitMsg asks the app to submit the draft.
type SubmitMsg struct{}

// CancelledMsg is sent when the user leaves the wizard from the first step.
type CancelledMsg struct{}

// sideBySideWidth is the narrowest width that fits the form next to the summary.
const sideBySideWidth = 90

// Wizard is the booking screen. The draft holds the state; the screen only
// collects input and renders it.
type Wizard struct {
	draft       *booking.Wizard
	seats       []client.Seat
	defaultName string

	seatID    client.ID
	passenger string
	confirm   bool

	form  *huh.Form
	err   string
	width int
}

// New returns the screen for draft. seats are the seats offered on the flight
// and defaultName prefills the passenger field.
func New(draft *booking.Wizard, seats []client.Seat, defaultName string) *Wizard {
	w := &Wizard{draft: draft, seats: seats, defaultName: defaultName, width: 80}
	w.form = w.buildForm()
	return w
}

func (w *Wizard) buildForm() *huh.Form {
	switch w.draft.Step() {
	case booking.StepSeatSelection:
		return w.seatForm()
	case booking.StepPassengerDetails:
		return w.passengerForm()
	default:
		return w.paymentForm()
	}
}

func (w *Wizard) seatForm() *huh.Form {
	if len(w.seats) == 0 {
		return nil
	}
	if d := w.draft.Draft(); d.SelectedSeat != nil {
		w.seatID = d.SelectedSeat.ID
	} else {
		w.seatID = w.seats[0].ID
	}

	options := make([]huh.Option[client.ID], 0, len(w.seats))
	for _, s := range w.seats {
		options = append(options, huh.NewOption(SeatLabel(s), s.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[client.ID]().
				Title(icons.Seat.String() + " Choose a seat").
				Options(options...).
				Value(&w.seatID),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func (w *Wizard) passengerForm() *huh.Form {
	w.passenger = w.draft.Draft().PassengerName
	if w.passenger == "" {
		w.passenger = w.defaultName
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(icons.User.String() + " Passenger name").
				Description("As shown on the travel document").
				Value(&w.passenger),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func (w *Wizard) paymentForm() *huh.Form {
	w.confirm = true
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s Pay %s and book?", icons.Payment, styles.Money(w.draft.TotalPrice()))).
				Affirmative("Book").
				Negative("Back").
				Value(&w.confirm),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// SeatLabel renders a seat option such as "12A  Economy  +$50.00".
func SeatLabel(s client.Seat) string {
	label := fmt.Sprintf("%-4s %-9s", s.SeatNumber, widgets.Humanize(string(s.SeatClass)))
	if s.Price > 0 {
		label += " +" + styles.Money(s.Price)
	}
	return label
}

func (w *Wizard) seatByID(id client.ID) *client.Seat {
	for i := range w.seats {
		if w.seats[i].ID == id {
			return &w.seats[i]
		}
	}
	return nil
}

// Fail shows err after a rejected submit and reopens the payment step.
func (w *Wizard) Fail(err error) tea.Cmd {
	w.err = err.Error()
	w.form = w.buildForm()
	if w.form == nil {
		return nil
	}
	return w.form.Init()
}

// SetWidth sets the render width
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	if w.form == nil {
		return nil
	}
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if w.draft.Submitting() {
		return w, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return w, w.back()
		case "enter":
			if w.form == nil {
				return w, w.complete()
			}
		}
	}
	if w.form == nil {
		return w, nil
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.draft.Step() == booking.StepSeatSelection {
		w.draft.SelectSeat(w.seatByID(w.seatID))
	}

	if w.form.State == huh.StateCompleted {
		return w, w.complete()
	}
	return w, cmd
}

// complete applies the finished form to the draft and moves on.
func (w *Wizard) complete() tea.Cmd {
	w.err = ""
	switch w.draft.Step() {
	case booking.StepSeatSelection:
		w.draft.SelectSeat(w.seatByID(w.seatID))
	case booking.StepPassengerDetails:
		w.draft.SetPassengerName(w.passenger)
	case booking.StepPayment:
		if !w.confirm {
			return w.back()
		}
		return func() tea.Msg { return SubmitMsg{} }
	}

	if err := w.draft.Advance(); err != nil {
		w.err = err.Error()
	}
	w.form = w.buildForm()
	if w.form == nil {
		return nil
	}
	return w.form.Init()
}

func (w *Wizard) back() tea.Cmd {
	w.err = ""
	if err := w.draft.GoBack(); err != nil {
		if errors.Is(err, booking.ErrFirstStep) || errors.Is(err, booking.ErrAbandoned) {
			return func() tea.Msg { return CancelledMsg{} }
		}
		w.err = err.Error()
	}
	w.form = w.buildForm()
	if w.form == nil {
		return nil
	}
	return w.form.Init()
}

// View implements tea.Model
func (w *Wizard) View() string {
	var body string
	switch {
	case w.draft.Submitting():
		body = styles.Subtitle.Render(icons.Refresh.String() + " Submitting booking...")
	case w.form == nil:
		body = styles.StatusWarning.Render(icons.Warning.String()+" No seats available on this flight") +
			"\n" + styles.Help.Render("enter: continue  esc: back to results")
	default:
		body = w.form.View()
	}
	if w.err != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(styles.Danger).Render(icons.Critical.String()+" "+w.err)
	}

	summary := w.renderSummary()
	var content string
	if w.width >= sideBySideWidth {
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(w.width-lipgloss.Width(summary)-2).Render(body),
			summary)
	} else {
		content = body + "\n\n" + summary
	}
	return w.renderProgress() + "\n\n" + content
}

func (w *Wizard) renderSummary() string {
	d := w.draft.Draft()
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Booking summary"))
	sb.WriteString("\n")

	row := func(k, v string) {
		sb.WriteString(styles.KeyStyle.Render(fmt.Sprintf("%-11s", k)))
		sb.WriteString(styles.ValueStyle.Render(v))
		sb.WriteString("\n")
	}
	if d.Flight != nil {
		row("Flight", d.Flight.FlightNumber)
		row("Route", d.Flight.Route())
		if !d.Flight.DepartureTime.IsZero() {
			row("Departs", d.Flight.DepartureTime.Format("Mon Jan 2 15:04"))
		}
		row("Fare", styles.Money(d.Flight.BasePrice()))
	}
	if d.SelectedSeat != nil {
		row("Seat", d.SelectedSeat.SeatNumber)
		row("Seat price", styles.Money(d.SelectedSeat.Price))
	}
	if strings.TrimSpace(d.PassengerName) != "" {
		row("Passenger", strings.TrimSpace(d.PassengerName))
	}
	sb.WriteString("\n")
	sb.WriteString(styles.KeyStyle.Render(fmt.Sprintf("%-11s", "Total")))
	sb.WriteString(styles.PriceStyle.Render(styles.Money(d.TotalPrice)))
	return styles.Panel.Render(sb.String())
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := max(60, w.width-1)
	current := int(w.draft.Step())

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, step := range booking.Steps {
		var indicator string
		var nameStyle lipgloss.Style
		switch {
		case i < current:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case i == current:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}
		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(step.String())))
	}
	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │"
	barWidth := width - 5
	filled := ((current + 1) * barWidth) / len(booking.Steps)
	bar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", barWidth-filled))

	title := fmt.Sprintf("Book %s", w.flightNumber())
	top := "┌─ " + titleStyle.Render(title) + " " + strings.Repeat("─", max(0, width-5-lipgloss.Width(title))) + "┐"
	stepsRow := "│ " + stepsLine + strings.Repeat(" ", max(0, width-4-lipgloss.Width(stepsLine))) + " │"
	barRow := "│  " + bar + " │"
	bottom := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{top, stepsRow, barRow, bottom}, "\n"))
}

func (w *Wizard) flightNumber() string {
	if d := w.draft.Draft(); d.Flight != nil {
		return d.Flight.FlightNumber
	}
	return "flight"
}
