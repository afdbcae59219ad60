// ABOUTME: Book command: drives the booking wizard without a terminal UI
// ABOUTME: Looks up the flight and seat, fills the draft, and submits once

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flyair/flyair-cli/internal/booking"
	"github.com/flyair/flyair-cli/internal/client"
)

// flightPageSize is the page size used when scanning for a flight by id.
const flightPageSize = 100

type bookInput struct {
	FlightID  client.ID
	Seat      string
	Passenger string
}

var bookFlags bookInput

var bookCmd = &cobra.Command{
	Use:   "book <flight-id>",
	Short: "Book a seat on a flight",
	Long: `Book a seat on a flight. The passenger name defaults to the signed-in
user's name. Use "flyair seats <flight-id>" to see which seats are free.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := bookFlags
		in.FlightID = client.ID(args[0])
		run(func(ctx context.Context, w io.Writer) int { return runBook(ctx, w, in) })
	},
}

func init() {
	bookCmd.Flags().StringVar(&bookFlags.Seat, "seat", "", "Seat number, e.g. 12A")
	bookCmd.Flags().StringVar(&bookFlags.Passenger, "passenger", "", "Passenger name (default: your name)")
	rootCmd.AddCommand(bookCmd)
}

// findFlight pages through the flight list until id turns up.
func findFlight(ctx context.Context, c *client.Client, id client.ID) (*client.Flight, error) {
	for page := 0; ; page++ {
		res, err := c.ListFlights(ctx, client.ListParams{Page: page, Size: flightPageSize})
		if err != nil {
			return nil, err
		}
		for i := range res.Content {
			if res.Content[i].ID == id {
				return &res.Content[i], nil
			}
		}
		if len(res.Content) == 0 || page+1 >= res.TotalPages {
			return nil, nil
		}
	}
}

func runBook(ctx context.Context, w io.Writer, in bookInput) int {
	return withSession(ctx, w, func(e *env) int {
		flight, err := findFlight(ctx, e.client, in.FlightID)
		if err != nil {
			return report(w, err)
		}
		draft, err := booking.Start(flight, e.client)
		if err != nil {
			return report(w, fmt.Errorf("flight %s: %w", in.FlightID, err))
		}
		defer draft.Abandon()

		if in.Seat != "" {
			seats, err := e.client.AvailableSeats(ctx, in.FlightID)
			if err != nil {
				return report(w, err)
			}
			seat := findSeat(seats, in.Seat)
			if seat == nil {
				fmt.Fprintf(w, "Error: seat %s is not available on flight %s\n", in.Seat, flight.FlightNumber)
				return exitFailure
			}
			draft.SelectSeat(seat)
		}
		if err := draft.Advance(); err != nil {
			return report(w, err)
		}

		name := in.Passenger
		if strings.TrimSpace(name) == "" {
			if u := e.session.State().User; u != nil {
				name = strings.TrimSpace(u.FirstName + " " + u.LastName)
			}
		}
		draft.SetPassengerName(name)
		if err := draft.Advance(); err != nil {
			return report(w, err)
		}

		total := draft.TotalPrice()
		slog.Debug("Booking draft ready", "flight", flight.FlightNumber, "total", total)

		b, err := draft.Submit(ctx)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, b)
		}
		fmt.Fprintf(w, "Booking %s confirmed: %s %s, seat %s, %s\n",
			b.ID, flight.FlightNumber, flight.Route(), orDash(b.SeatNumber), orDash(b.PassengerName))
		fmt.Fprintf(w, "Total: %s\n", money(total))
		return exitOK
	})
}

func findSeat(seats []client.Seat, number string) *client.Seat {
	for i := range seats {
		if strings.EqualFold(seats[i].SeatNumber, number) {
			return &seats[i]
		}
	}
	return nil
}
