// ABOUTME: Flight search and administration endpoints

package client

import (
	"context"
	"net/http"
	"net/url"
)

// SearchFlights calls POST /api/flights/search
func (c *Client) SearchFlights(ctx context.Context, filters SearchFilters) (Page[Flight], error) {
	return call[Page[Flight]](ctx, c, http.MethodPost, "/api/flights/search", filters)
}

// ListFlights calls GET /api/flights
func (c *Client) ListFlights(ctx context.Context, params ListParams) (Page[Flight], error) {
	return call[Page[Flight]](ctx, c, http.MethodGet, "/api/flights"+params.Query(), nil)
}

// UpdateFlightStatus calls PATCH /api/flights/{id}/status
func (c *Client) UpdateFlightStatus(ctx context.Context, id ID, status FlightStatus) (*Flight, error) {
	return call[*Flight](ctx, c, http.MethodPatch, "/api/flights/"+url.PathEscape(id.String())+"/status",
		map[string]FlightStatus{"status": status})
}

// DeleteFlight calls DELETE /api/flights/{id}
func (c *Client) DeleteFlight(ctx context.Context, id ID) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, "/api/flights/"+url.PathEscape(id.String()), nil)
	return err
}
