// ABOUTME: Administrator commands: dashboard stats, fleet and seat inventory, users, bookings, tickets
// ABOUTME: Every subcommand requires a session with the ADMIN role

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/flyair/flyair-cli/internal/client"
)

var adminParams client.ListParams

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administer flights, airports, users, and tickets",
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard totals and recent bookings",
	Run: func(cmd *cobra.Command, args []string) {
		run(runAdminStats)
	},
}

var adminFlightsCmd = &cobra.Command{
	Use:   "flights",
	Short: "List all flights",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminFlights(ctx, w, adminParams) })
	},
}

var adminFlightStatusCmd = &cobra.Command{
	Use:   "status <flight-id> <status>",
	Short: "Set a flight's status (SCHEDULED, DELAYED, CANCELLED, COMPLETED)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runAdminFlightStatus(ctx, w, client.ID(args[0]), args[1])
		})
	},
}

var adminFlightDeleteCmd = &cobra.Command{
	Use:   "delete <flight-id>",
	Short: "Delete a flight",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminFlightDelete(ctx, w, client.ID(args[0])) })
	},
}

var adminAirportsCmd = &cobra.Command{
	Use:   "airports",
	Short: "List airports",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminAirports(ctx, w, adminParams) })
	},
}

var adminAirportDeleteCmd = &cobra.Command{
	Use:   "delete <airport-id>",
	Short: "Delete an airport",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminAirportDelete(ctx, w, client.ID(args[0])) })
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminUsers(ctx, w, adminParams) })
	},
}

var adminActivateUserCmd = &cobra.Command{
	Use:   "activate <user-id>",
	Short: "Re-enable a user account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminSetActive(ctx, w, client.ID(args[0]), true) })
	},
}

var adminDeactivateUserCmd = &cobra.Command{
	Use:   "deactivate <user-id>",
	Short: "Disable a user account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminSetActive(ctx, w, client.ID(args[0]), false) })
	},
}

var adminUserRoleCmd = &cobra.Command{
	Use:   "role <user-id> <USER|ADMIN>",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runAdminSetRole(ctx, w, client.ID(args[0]), args[1])
		})
	},
}

var adminSeatsCmd = &cobra.Command{
	Use:   "seats",
	Short: "List the seat inventory",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminSeats(ctx, w, adminParams) })
	},
}

var adminSeatDeleteCmd = &cobra.Command{
	Use:   "delete <seat-id>",
	Short: "Delete a seat",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminSeatDelete(ctx, w, client.ID(args[0])) })
	},
}

var adminBookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List all bookings",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminBookings(ctx, w, adminParams) })
	},
}

var adminTicketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List all tickets",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminTickets(ctx, w, adminParams) })
	},
}

var adminBoardCmd = &cobra.Command{
	Use:   "board <ticket-id>",
	Short: "Mark a checked-in ticket as boarded",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int { return runAdminBoard(ctx, w, client.ID(args[0])) })
	},
}

func init() {
	for _, c := range []*cobra.Command{adminFlightsCmd, adminAirportsCmd, adminUsersCmd, adminSeatsCmd, adminBookingsCmd, adminTicketsCmd} {
		addListFlags(c, &adminParams)
	}
	adminFlightsCmd.AddCommand(adminFlightStatusCmd, adminFlightDeleteCmd)
	adminAirportsCmd.AddCommand(adminAirportDeleteCmd)
	adminUsersCmd.AddCommand(adminActivateUserCmd, adminDeactivateUserCmd, adminUserRoleCmd)
	adminSeatsCmd.AddCommand(adminSeatDeleteCmd)
	adminTicketsCmd.AddCommand(adminBoardCmd)
	adminCmd.AddCommand(adminStatsCmd, adminFlightsCmd, adminAirportsCmd, adminUsersCmd, adminSeatsCmd,
		adminBookingsCmd, adminTicketsCmd)
	rootCmd.AddCommand(adminCmd)
}

func runAdminStats(ctx context.Context, w io.Writer) int {
	return withAdmin(ctx, w, func(e *env) int {
		stats, err := e.client.DashboardStats(ctx)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, stats)
		}
		fmt.Fprintf(w, `Flights:   %d
Bookings:  %d
Revenue:   %s
Users:     %d

Recent bookings
%s
`, stats.TotalFlights, stats.TotalBookings, money(stats.TotalRevenue), stats.TotalUsers, formatBookings(stats.RecentBookings))
		return exitOK
	})
}

func runAdminFlights(ctx context.Context, w io.Writer, params client.ListParams) int {
	return withAdmin(ctx, w, func(e *env) int {
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

func runAdminFlightStatus(ctx context.Context, w io.Writer, id client.ID, status string) int {
	s, err := client.ParseFlightStatus(status)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFailure
	}
	return withAdmin(ctx, w, func(e *env) int {
		f, err := e.client.UpdateFlightStatus(ctx, id, s)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, f)
		}
		fmt.Fprintf(w, "Flight %s is now %s.\n", id, s)
		return exitOK
	})
}

func runAdminFlightDelete(ctx context.Context, w io.Writer, id client.ID) int {
	return withAdmin(ctx, w, func(e *env) int {
		if err := e.client.DeleteFlight(ctx, id); err != nil {
			return report(w, err)
		}
		fmt.Fprintf(w, "Flight %s deleted.\n", id)
		return exitOK
	})
}

func runAdminAirports(ctx context.Context, w io.Writer, params client.ListParams) int {
	return withAdmin(ctx, w, func(e *env) int {
		page, err := e.client.ListAirports(ctx, params)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, page)
		}
		if len(page.Content) == 0 {
			fmt.Fprintln(w, "No airports.")
			return exitOK
		}
		rows := make([][]string, 0, len(page.Content))
		for _, a := range page.Content {
			rows = append(rows, []string{
				a.ID.String(), a.AirportCode, a.AirportName, a.City, a.Country, strconv.FormatBool(a.IsActive),
			})
		}
		fmt.Fprintln(w, renderTable([]string{"ID", "CODE", "NAME", "CITY", "COUNTRY", "ACTIVE"}, rows))
		fmt.Fprintln(w, pageFooter(params, page.TotalPages, page.TotalElements))
		return exitOK
	})
}

func runAdminAirportDelete(ctx context.Context, w io.Writer, id client.ID) int {
	return withAdmin(ctx, w, func(e *env) int {
		if err := e.client.DeleteAirport(ctx, id); err != nil {
			return report(w, err)
		}
		fmt.Fprintf(w, "Airport %s deleted.\n", id)
		return exitOK
	})
}

func runAdminUsers(ctx context.Context, w io.Writer, params client.ListParams) int {
	return withAdmin(ctx, w, func(e *env) int {
		page, err := e.client.ListUsers(ctx, params)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, page)
		}
		fmt.Fprintln(w, formatUsers(page.Content))
		fmt.Fprintln(w, pageFooter(params, page.TotalPages, page.TotalElements))
		return exitOK
	})
}

func runAdminSetActive(ctx context.Context, w io.Writer, id client.ID, active bool) int {
	return runAdminUpdateUser(ctx, w, id, client.ProfileUpdate{IsActive: &active})
}

func runAdminSetRole(ctx context.Context, w io.Writer, id client.ID, role string) int {
	r, err := client.ParseRole(role)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFailure
	}
	return runAdminUpdateUser(ctx, w, id, client.ProfileUpdate{Role: r})
}

func runAdminUpdateUser(ctx context.Context, w io.Writer, id client.ID, update client.ProfileUpdate) int {
	return withAdmin(ctx, w, func(e *env) int {
		if st := e.session.State(); st.User != nil && st.User.ID == id {
			fmt.Fprintln(w, "Error: administrators cannot change their own account here")
			return exitFailure
		}
		u, err := e.client.UpdateUser(ctx, id, update)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, u)
		}
		if u == nil {
			fmt.Fprintf(w, "User %s updated.\n", id)
			return exitOK
		}
		fmt.Fprintf(w, "User %s (%s) is now %s, active: %t.\n", id, u.Username, u.Role, u.IsActive)
		return exitOK
	})
}

func runAdminSeats(ctx context.Context, w io.Writer, params client.ListParams) int {
	return withAdmin(ctx, w, func(e *env) int {
		page, err := e.client.ListSeats(ctx, params)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, page)
		}
		if len(page.Content) == 0 {
			fmt.Fprintln(w, "No seats.")
			return exitOK
		}
		rows := make([][]string, 0, len(page.Content))
		for _, s := range page.Content {
			rows = append(rows, []string{
				s.ID.String(), orDash(s.FlightID.String()), s.SeatNumber, string(s.SeatClass),
				money(s.Price), strconv.FormatBool(s.IsAvailable),
			})
		}
		fmt.Fprintln(w, renderTable([]string{"ID", "FLIGHT", "SEAT", "CLASS", "PRICE", "AVAILABLE"}, rows))
		fmt.Fprintln(w, pageFooter(params, page.TotalPages, page.TotalElements))
		return exitOK
	})
}

func runAdminSeatDelete(ctx context.Context, w io.Writer, id client.ID) int {
	return withAdmin(ctx, w, func(e *env) int {
		if err := e.client.DeleteSeat(ctx, id); err != nil {
			return report(w, err)
		}
		fmt.Fprintf(w, "Seat %s deleted.\n", id)
		return exitOK
	})
}

func runAdminBookings(ctx context.Context, w io.Writer, params client.ListParams) int {
	return withAdmin(ctx, w, func(e *env) int {
		page, err := e.client.ListBookings(ctx, params)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, page)
		}
		fmt.Fprintln(w, formatBookings(page.Content))
		fmt.Fprintln(w, pageFooter(params, page.TotalPages, page.TotalElements))
		return exitOK
	})
}

func runAdminTickets(ctx context.Context, w io.Writer, params client.ListParams) int {
	return withAdmin(ctx, w, func(e *env) int {
		page, err := e.client.ListTickets(ctx, params)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, page)
		}
		fmt.Fprintln(w, formatTickets(page.Content))
		fmt.Fprintln(w, pageFooter(params, page.TotalPages, page.TotalElements))
		return exitOK
	})
}

func runAdminBoard(ctx context.Context, w io.Writer, id client.ID) int {
	return withAdmin(ctx, w, func(e *env) int {
		t, err := scanTickets(ctx, e.client, id)
		if err != nil {
			return report(w, err)
		}
		if t == nil {
			fmt.Fprintf(w, "Error: ticket %s not found\n", id)
			return exitFailure
		}
		if !t.CanBoard() {
			fmt.Fprintf(w, "Error: ticket %s is %s, only checked-in tickets can board\n", id, t.Status)
			return exitFailure
		}
		updated, err := e.client.Board(ctx, id)
		if err != nil {
			return report(w, err)
		}
		if IsJSONOutput() {
			return printJSON(w, updated)
		}
		fmt.Fprintf(w, "Ticket %s boarded.\n", id)
		return exitOK
	})
}

// scanTickets pages through every ticket until id turns up.
func scanTickets(ctx context.Context, c *client.Client, id client.ID) (*client.Ticket, error) {
	for page := 0; ; page++ {
		res, err := c.ListTickets(ctx, client.ListParams{Page: page, Size: flightPageSize})
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

func formatUsers(users []client.User) string {
	if len(users) == 0 {
		return "No users."
	}
	rows := make([][]string, 0, len(users))
	for i := range users {
		u := &users[i]
		rows = append(rows, []string{
			u.ID.String(), u.Username, u.FullName(), orDash(u.Email), string(u.Role), strconv.FormatBool(u.IsActive),
		})
	}
	return renderTable([]string{"ID", "USERNAME", "NAME", "EMAIL", "ROLE", "ACTIVE"}, rows)
}

func pageFooter(params client.ListParams, totalPages int, total int64) string {
	return fmt.Sprintf("Page %d of %d (%d total)", params.Page+1, max(1, totalPages), total)
}
