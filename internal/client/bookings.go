// ABOUTME: Booking and ticket endpoints for travelers and administrators

package client

import (
	"context"
	"net/http"
	"net/url"
)

// CreateBooking calls POST /api/bookings
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	return call[*Booking](ctx, c, http.MethodPost, "/api/bookings", req)
}

// MyBookings calls GET /api/bookings/my-bookings
func (c *Client) MyBookings(ctx context.Context) ([]Booking, error) {
	return call[[]Booking](ctx, c, http.MethodGet, "/api/bookings/my-bookings", nil)
}

// ListBookings calls GET /api/bookings
func (c *Client) ListBookings(ctx context.Context, params ListParams) (Page[Booking], error) {
	return call[Page[Booking]](ctx, c, http.MethodGet, "/api/bookings"+params.Query(), nil)
}

// MyTickets calls GET /api/tickets/my-tickets
func (c *Client) MyTickets(ctx context.Context) ([]Ticket, error) {
	return call[[]Ticket](ctx, c, http.MethodGet, "/api/tickets/my-tickets", nil)
}

// ListTickets calls GET /api/tickets
func (c *Client) ListTickets(ctx context.Context, params ListParams) (Page[Ticket], error) {
	return call[Page[Ticket]](ctx, c, http.MethodGet, "/api/tickets"+params.Query(), nil)
}

// CheckIn calls PATCH /api/tickets/{id}/check-in
func (c *Client) CheckIn(ctx context.Context, id ID) (*Ticket, error) {
	return c.ticketAction(ctx, id, "check-in")
}

// Board calls PATCH /api/tickets/{id}/board
func (c *Client) Board(ctx context.Context, id ID) (*Ticket, error) {
	return c.ticketAction(ctx, id, "board")
}

// CancelTicket calls PATCH /api/tickets/{id}/cancel
func (c *Client) CancelTicket(ctx context.Context, id ID) (*Ticket, error) {
	return c.ticketAction(ctx, id, "cancel")
}

func (c *Client) ticketAction(ctx context.Context, id ID, action string) (*Ticket, error) {
	return call[*Ticket](ctx, c, http.MethodPatch, "/api/tickets/"+url.PathEscape(id.String())+"/"+action, nil)
}
