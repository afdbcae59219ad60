// ABOUTME: Shared output helpers: exit codes, error reporting, JSON and tables
// ABOUTME: Maps client, session, and booking errors onto the CLI's exit codes

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/flyair/flyair-cli/internal/booking"
	"github.com/flyair/flyair-cli/internal/client"
)

// Exit codes
const (
	exitOK      = 0 // success
	exitFailure = 1 // rejected by the backend or invalid input
	exitError   = 2 // transport, configuration, or server error
	exitAuth    = 3 // not logged in or session expired
)

// exitCode classifies err.
func exitCode(err error) int {
	var apiErr *client.APIError
	var domainErr *client.DomainError
	var validationErr *booking.ValidationError

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, client.ErrUnauthorized):
		return exitAuth
	case errors.Is(err, client.ErrInvalidCredentials),
		errors.As(err, &domainErr),
		errors.As(err, &validationErr),
		errors.Is(err, booking.ErrNoFlight),
		errors.Is(err, booking.ErrNotReady):
		return exitFailure
	case errors.As(err, &apiErr):
		if apiErr.Status < http.StatusInternalServerError {
			return exitFailure
		}
		return exitError
	default:
		return exitError
	}
}

// report prints err and returns its exit code.
func report(w io.Writer, err error) int {
	code := exitCode(err)
	if code == exitAuth {
		fmt.Fprintln(w, "Session expired. Run `flyair login` to sign in again.")
		return code
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return code
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprintln(w, string(data))
	return exitOK
}

// renderTable formats rows under headers with a plain border
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatTime(ts client.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format("2006-01-02 15:04")
}
