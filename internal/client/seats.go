// ABOUTME: Seat inventory endpoints: per-flight availability, seat listing and removal

package client

import (
	"context"
	"net/http"
	"net/url"
)

// AvailableSeats calls GET /api/flight-seats/flight/{id}/available
func (c *Client) AvailableSeats(ctx context.Context, flightID ID) ([]Seat, error) {
	return call[[]Seat](ctx, c, http.MethodGet, "/api/flight-seats/flight/"+url.PathEscape(flightID.String())+"/available", nil)
}

// ListSeats calls GET /api/seats
func (c *Client) ListSeats(ctx context.Context, params ListParams) (Page[Seat], error) {
	return call[Page[Seat]](ctx, c, http.MethodGet, "/api/seats"+params.Query(), nil)
}

// DeleteSeat calls DELETE /api/seats/{id}
func (c *Client) DeleteSeat(ctx context.Context, id ID) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, "/api/seats/"+url.PathEscape(id.String()), nil)
	return err
}
