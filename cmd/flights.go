// ABOUTME: Flight discovery commands: search, list, seat availability, and global search
// ABOUTME: Prints tables by default and JSON with --json

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flyair/flyair-cli/internal/client"
)

var (
	searchFilters client.SearchFilters
	listParams    client.ListParams
)

var flightsCmd = &cobra.Command{
	Use:   "flights",
	Short: "Search and list flights",
}

var flightsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search flights by route, date, and cabin",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runFlightsSearch(ctx, w, searchFilters) })
	},
}

var flightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled flights",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runFlightsList(ctx, w, listParams) })
	},
}

var seatsCmd = &cobra.Command{
	Use:   "seats <flight-id>",
	Short: "Show the seats still available on a flight",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runSeats(ctx, w, client.ID(args[0])) })
	},
}

var globalSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search flights, bookings, and users at once",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")
		run(func(ctx context.Context, w io.Writer) int { return runGlobalSearch(ctx, w, query) })
	},
}

func init() {
	f := flightsSearchCmd.Flags()
	f.StringVar(&searchFilters.DepartureAirportCode, "from", "", "Departure airport code")
	f.StringVar(&searchFilters.ArrivalAirportCode, "to", "", "Arrival airport code")
	f.StringVar(&searchFilters.DepartureDate, "date", "", "Departure date (YYYY-MM-DD)")
	f.StringVar(&searchFilters.ReturnDate, "return", "", "Return date (YYYY-MM-DD)")
	f.IntVar(&searchFilters.Passengers, "passengers", 1, "Number of passengers")
	f.StringVar(&searchFilters.Class, "class", "", "Cabin class: economy, business, first")

	addListFlags(flightsListCmd, &listParams)

	flightsCmd.AddCommand(flightsSearchCmd, flightsListCmd)
	rootCmd.AddCommand(flightsCmd, seatsCmd, globalSearchCmd)
}

func addListFlags(cmd *cobra.Command, p *client.ListParams) {
	cmd.Flags().IntVar(&p.Page, "page", 0, "Page number, starting at 0")
	cmd.Flags().IntVar(&p.Size, "size", 20, "Page size")
	cmd.Flags().StringVar(&p.SearchTerm, "search", "", "Filter by search term")
	cmd.Flags().StringVar(&p.SortBy, "sort", "", "Sort field")
	cmd.Flags().StringVar(&p.SortDir, "order", "", "Sort direction: asc or desc")
}

// runFlightsSearch searches flights. Anyone may search; no login is needed.
func runFlightsSearch(ctx context.Context, w io.Writer, filters client.SearchFilters) int {
	filters.DepartureAirportCode = strings.ToUpper(strings.TrimSpace(filters.DepartureAirportCode))
	filters.ArrivalAirportCode = strings.ToUpper(strings.TrimSpace(filters.ArrivalAirportCode))
	filters.Class = strings.ToUpper(strings.TrimSpace(filters.Class))

	return withEnv(ctx, w, func(e *env) int {
		page, err := e.client.SearchFlights(ctx, filters)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, page.Content)
		}
		fmt.Fprintln(w, formatFlights(page.Content))
		return exitOK
	})
}

func runFlightsList(ctx context.Context, w io.Writer, params client.ListParams) int {
	return withEnv(ctx, w, func(e *env) int {
		page, err := e.client.ListFlights(ctx, params)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, page)
		}
		fmt.Fprintln(w, formatFlights(page.Content))
		fmt.Fprintln(w, pageFooter(params, page.TotalPages, page.TotalElements))
		return exitOK
	})
}

func runSeats(ctx context.Context, w io.Writer, flightID client.ID) int {
	return withEnv(ctx, w, func(e *env) int {
		seats, err := e.client.AvailableSeats(ctx, flightID)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, seats)
		}
		fmt.Fprintln(w, formatSeats(seats))
		return exitOK
	})
}

func runGlobalSearch(ctx context.Context, w io.Writer, query string) int {
	return withSession(ctx, w, func(e *env) int {
		res, err := e.client.GlobalSearch(ctx, query)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, res)
		}
		fmt.Fprintf(w, "Flights (%d)\n%s\n", len(res.Flights), formatFlights(res.Flights))
		fmt.Fprintf(w, "Bookings (%d)\n%s\n", len(res.Bookings), formatBookings(res.Bookings))
		if len(res.Users) > 0 {
			fmt.Fprintf(w, "Users (%d)\n%s\n", len(res.Users), formatUsers(res.Users))
		}
		return exitOK
	})
}

func formatFlights(flights []client.Flight) string {
	if len(flights) == 0 {
		return "No flights found."
	}
	rows := make([][]string, 0, len(flights))
	for i := range flights {
		f := &flights[i]
		seats, price := "-", "-"
		if f.AvailableSeats != nil {
			seats = strconv.Itoa(*f.AvailableSeats)
		}
		if f.Price != nil {
			price = money(*f.Price)
		}
		rows = append(rows, []string{
			f.ID.String(), f.FlightNumber, f.Route(),
			formatTime(f.DepartureTime), formatTime(f.ArrivalTime),
			string(f.Status), seats, price,
		})
	}
	return renderTable([]string{"ID", "FLIGHT", "ROUTE", "DEPARTS", "ARRIVES", "STATUS", "SEATS", "PRICE"}, rows)
}

func formatSeats(seats []client.Seat) string {
	if len(seats) == 0 {
		return "No seats available."
	}
	rows := make([][]string, 0, len(seats))
	for _, s := range seats {
		rows = append(rows, []string{s.ID.String(), s.SeatNumber, string(s.SeatClass), money(s.Price)})
	}
	return renderTable([]string{"ID", "SEAT", "CLASS", "SUPPLEMENT"}, rows)
}
