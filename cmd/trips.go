// ABOUTME: Traveler trip commands: bookings, tickets, check-in, and cancellation
// ABOUTME: Ticket actions are checked against the ticket's status before calling the backend

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/flyair/flyair-cli/internal/client"
)

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List your bookings",
	Run: func(cmd *cobra.Command, args []string) {
		run(runBookings)
	},
}

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List your tickets",
	Run: func(cmd *cobra.Command, args []string) {
		run(runTickets)
	},
}

var checkInCmd = &cobra.Command{
	Use:   "check-in <ticket-id>",
	Short: "Check in for a flight",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runCheckIn(ctx, w, client.ID(args[0])) })
	},
}

var cancelTicketCmd = &cobra.Command{
	Use:   "cancel <ticket-id>",
	Short: "Cancel a ticket",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runCancelTicket(ctx, w, client.ID(args[0])) })
	},
}

func init() {
	ticketsCmd.AddCommand(checkInCmd, cancelTicketCmd)
	rootCmd.AddCommand(bookingsCmd, ticketsCmd)
}

func runBookings(ctx context.Context, w io.Writer) int {
	return withSession(ctx, w, func(e *env) int {
		bookings, err := e.client.MyBookings(ctx)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, bookings)
		}
		fmt.Fprintln(w, formatBookings(bookings))
		return exitOK
	})
}

func runTickets(ctx context.Context, w io.Writer) int {
	return withSession(ctx, w, func(e *env) int {
		tickets, err := e.client.MyTickets(ctx)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, tickets)
		}
		fmt.Fprintln(w, formatTickets(tickets))
		return exitOK
	})
}

// findTicket looks id up among the user's tickets.
func findTicket(ctx context.Context, c *client.Client, id client.ID) (*client.Ticket, error) {
	tickets, err := c.MyTickets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == id {
			return &tickets[i], nil
		}
	}
	return nil, nil
}

func runCheckIn(ctx context.Context, w io.Writer, id client.ID) int {
	return runTicketAction(ctx, w, id, "checked in", (*client.Ticket).CanCheckIn, (*client.Client).CheckIn)
}

func runCancelTicket(ctx context.Context, w io.Writer, id client.ID) int {
	return runTicketAction(ctx, w, id, "cancelled", (*client.Ticket).CanCancel, (*client.Client).CancelTicket)
}

// ticketAction is a client method that moves a ticket to a new status.
type ticketAction func(*client.Client, context.Context, client.ID) (*client.Ticket, error)

// runTicketAction applies action to one of the user's tickets if allowed
// accepts its current status.
func runTicketAction(ctx context.Context, w io.Writer, id client.ID, done string,
	allowed func(*client.Ticket) bool, action ticketAction) int {
	return withSession(ctx, w, func(e *env) int {
		t, err := findTicket(ctx, e.client, id)
		if err != nil {
			return report(w, err)
		}
		if t == nil {
			fmt.Fprintf(w, "Error: ticket %s not found\n", id)
			return exitFailure
		}
		if !allowed(t) {
			fmt.Fprintf(w, "Error: ticket %s is %s\n", id, t.Status)
			return exitFailure
		}

		updated, err := action(e.client, ctx, id)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, updated)
		}
		fmt.Fprintf(w, "Ticket %s %s.\n", id, done)
		return exitOK
	})
}

func formatBookings(bookings []client.Booking) string {
	if len(bookings) == 0 {
		return "No bookings."
	}
	rows := make([][]string, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		flight, route := "#"+b.FlightID.String(), "-"
		if b.Flight != nil {
			flight, route = b.Flight.FlightNumber, b.Flight.Route()
		}
		rows = append(rows, []string{
			b.ID.String(), b.PassengerName, flight, route,
			orDash(b.SeatNumber), string(b.Status), money(b.TotalPrice),
		})
	}
	return renderTable([]string{"ID", "PASSENGER", "FLIGHT", "ROUTE", "SEAT", "STATUS", "TOTAL"}, rows)
}

func formatTickets(tickets []client.Ticket) string {
	if len(tickets) == 0 {
		return "No tickets."
	}
	rows := make([][]string, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		flight, departs := "-", "-"
		if f := t.Flight(); f != nil {
			flight, departs = f.FlightNumber, formatTime(f.DepartureTime)
		}
		rows = append(rows, []string{
			t.ID.String(), t.PassengerName, flight, orDash(t.SeatNumber), departs, string(t.Status),
		})
	}
	return renderTable([]string{"ID", "PASSENGER", "FLIGHT", "SEAT", "DEPARTS", "STATUS"}, rows)
}
