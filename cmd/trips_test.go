// ABOUTME: Tests for the bookings and tickets commands
// ABOUTME: Verifies ticket actions are gated on the ticket's current status

package cmd

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flyair/flyair-cli/internal/client"
)

func ticketBackend(t *testing.T, status client.TicketStatus, patched *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/tickets/my-tickets":
			writeEnvelope(w, http.StatusOK, []client.Ticket{
				{ID: "t1", PassengerName: "Ada Lovelace", SeatNumber: "12A", Status: status},
			})
		case r.Method == http.MethodPatch:
			*patched = r.URL.Path
			writeEnvelope(w, http.StatusOK, client.Ticket{ID: "t1", Status: client.TicketCheckedIn})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}
}

func TestCheckIn_Allowed(t *testing.T) {
	var patched string
	dir := useBackend(t, ticketBackend(t, client.TicketIssued, &patched))
	storeSession(t, dir, traveler)

	var buf bytes.Buffer
	assert.Equal(t, exitOK, runCheckIn(context.Background(), &buf, "t1"), buf.String())
	assert.Equal(t, "/api/tickets/t1/check-in", patched)
	assert.Contains(t, buf.String(), "Ticket t1 checked in.")
}

func TestCheckIn_AlreadyCheckedIn(t *testing.T) {
	var patched string
	dir := useBackend(t, ticketBackend(t, client.TicketCheckedIn, &patched))
	storeSession(t, dir, traveler)

	var buf bytes.Buffer
	assert.Equal(t, exitFailure, runCheckIn(context.Background(), &buf, "t1"))
	assert.Empty(t, patched)
	assert.Contains(t, buf.String(), "CHECKED_IN")
}

func TestCancelTicket_Boarded(t *testing.T) {
	var patched string
	dir := useBackend(t, ticketBackend(t, client.TicketBoarded, &patched))
	storeSession(t, dir, traveler)

	var buf bytes.Buffer
	assert.Equal(t, exitFailure, runCancelTicket(context.Background(), &buf, "t1"))
	assert.Empty(t, patched)
}

func TestTicketAction_UnknownTicket(t *testing.T) {
	var patched string
	dir := useBackend(t, ticketBackend(t, client.TicketIssued, &patched))
	storeSession(t, dir, traveler)

	var buf bytes.Buffer
	assert.Equal(t, exitFailure, runCheckIn(context.Background(), &buf, "t9"))
	assert.Contains(t, buf.String(), "ticket t9 not found")
}

func TestBookings_JSON(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []client.Booking{{ID: "900", PassengerName: "Ada Lovelace", Status: client.BookingConfirmed}})
	})
	storeSession(t, dir, traveler)
	jsonOutput = true

	var buf bytes.Buffer
	assert.Equal(t, exitOK, runBookings(context.Background(), &buf))
	assert.Contains(t, buf.String(), `"passengerName": "Ada Lovelace"`)
}

func TestFormatBookings(t *testing.T) {
	assert.Equal(t, "No bookings.", formatBookings(nil))

	out := formatBookings([]client.Booking{
		{ID: "1", FlightID: "42", PassengerName: "Ada", Status: client.BookingConfirmed, TotalPrice: 300},
	})
	assert.Contains(t, out, "#42")
	assert.Contains(t, out, "$300.00")
}

func TestFormatTickets(t *testing.T) {
	assert.Equal(t, "No tickets.", formatTickets(nil))

	out := formatTickets([]client.Ticket{{ID: "t1", PassengerName: "Ada", Status: client.TicketIssued}})
	assert.Contains(t, out, "ISSUED")
}
