// ABOUTME: Scrollable tables for flights, bookings, and tickets
// ABOUTME: Wraps the bubbles table with row builders for each FlyAir resource

package listview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flyair/flyair-cli/internal/client"
	"github.com/flyair/flyair-cli/internal/tui/styles"
	"github.com/flyair/flyair-cli/internal/tui/widgets"
)

const dateLayout = "Jan 02 15:04"

// List is a titled table with an empty-state message.
type List struct {
	title string
	empty string
	table table.Model
}

func newList(title, empty string, cols []table.Column, rows []table.Row, height int) *List {
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(3, height)),
	)
	t.SetStyles(styles.Table())
	return &List{title: title, empty: empty, table: t}
}

var flightColumns = []table.Column{
	{Title: "Flight", Width: 8},
	{Title: "Route", Width: 14},
	{Title: "Departs", Width: 13},
	{Title: "Arrives", Width: 13},
	{Title: "Status", Width: 10},
	{Title: "Seats", Width: 6},
	{Title: "Price", Width: 10},
}

var bookingColumns = []table.Column{
	{Title: "Booking", Width: 8},
	{Title: "Passenger", Width: 20},
	{Title: "Flight", Width: 8},
	{Title: "Route", Width: 14},
	{Title: "Seat", Width: 5},
	{Title: "Status", Width: 10},
	{Title: "Total", Width: 10},
}

var ticketColumns = []table.Column{
	{Title: "Ticket", Width: 8},
	{Title: "Passenger", Width: 20},
	{Title: "Flight", Width: 8},
	{Title: "Seat", Width: 5},
	{Title: "Departs", Width: 13},
	{Title: "Status", Width: 11},
}

// Flights lists flight search results
func Flights(flights []client.Flight, height int) *List {
	return newList("Flights", "No flights match your search.", flightColumns, FlightRows(flights), height)
}

// Bookings lists bookings
func Bookings(bookings []client.Booking, height int) *List {
	return newList("Bookings", "No bookings yet.", bookingColumns, BookingRows(bookings), height)
}

// Tickets lists tickets
func Tickets(tickets []client.Ticket, height int) *List {
	return newList("Tickets", "No tickets yet.", ticketColumns, TicketRows(tickets), height)
}

// FlightRows builds one row per flight.
func FlightRows(flights []client.Flight) []table.Row {
	rows := make([]table.Row, 0, len(flights))
	for i := range flights {
		f := &flights[i]
		seats := "-"
		if f.AvailableSeats != nil {
			seats = fmt.Sprintf("%d", *f.AvailableSeats)
		}
		price := "-"
		if f.Price != nil {
			price = styles.Money(*f.Price)
		}
		rows = append(rows, table.Row{
			f.FlightNumber,
			f.Route(),
			formatTime(f.DepartureTime),
			formatTime(f.ArrivalTime),
			widgets.Humanize(string(f.Status)),
			seats,
			price,
		})
	}
	return rows
}

// BookingRows builds one row per booking.
func BookingRows(bookings []client.Booking) []table.Row {
	rows := make([]table.Row, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		number, route := "#"+b.FlightID.String(), "-"
		if b.Flight != nil {
			number, route = b.Flight.FlightNumber, b.Flight.Route()
		}
		rows = append(rows, table.Row{
			b.ID.String(),
			b.PassengerName,
			number,
			route,
			dash(b.SeatNumber),
			widgets.Humanize(string(b.Status)),
			styles.Money(b.TotalPrice),
		})
	}
	return rows
}

// TicketRows builds one row per ticket.
func TicketRows(tickets []client.Ticket) []table.Row {
	rows := make([]table.Row, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		number, departs := "-", "-"
		if f := t.Flight(); f != nil {
			number, departs = f.FlightNumber, formatTime(f.DepartureTime)
		}
		rows = append(rows, table.Row{
			t.ID.String(),
			t.PassengerName,
			number,
			dash(t.SeatNumber),
			departs,
			widgets.Humanize(string(t.Status)),
		})
	}
	return rows
}

func formatTime(ts client.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format(dateLayout)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Cursor returns the selected row index, or -1 when the list is empty.
func (l *List) Cursor() int {
	if len(l.table.Rows()) == 0 {
		return -1
	}
	return l.table.Cursor()
}

// Len returns the number of rows.
func (l *List) Len() int {
	return len(l.table.Rows())
}

// SetRows replaces the rows, keeping the cursor in range.
func (l *List) SetRows(rows []table.Row) {
	l.table.SetRows(rows)
	if c := l.table.Cursor(); c >= len(rows) {
		l.table.SetCursor(max(0, len(rows)-1))
	}
}

// SetHeight sets the number of visible rows.
func (l *List) SetHeight(h int) {
	l.table.SetHeight(max(3, h))
}

// Update handles table navigation keys
func (l *List) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return cmd
}

// View renders the title and table, or the empty message.
func (l *List) View() string {
	header := styles.Title.Render(fmt.Sprintf("%s (%d)", l.title, l.Len()))
	if l.Len() == 0 {
		return header + "\n" + styles.Subtitle.Render(l.empty)
	}
	return header + "\n" + l.table.View()
}
