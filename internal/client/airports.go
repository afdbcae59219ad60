// ABOUTME: Airport administration endpoints, plus the admin dashboard and global search

package client

import (
	"context"
	"net/http"
	"net/url"
)

// ListAirports calls GET /api/airports
func (c *Client) ListAirports(ctx context.Context, params ListParams) (Page[Airport], error) {
	return call[Page[Airport]](ctx, c, http.MethodGet, "/api/airports"+params.Query(), nil)
}

// DeleteAirport calls DELETE /api/airports/{id}
func (c *Client) DeleteAirport(ctx context.Context, id ID) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, "/api/airports/"+url.PathEscape(id.String()), nil)
	return err
}

// DashboardStats calls GET /api/dashboard/stats
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	return call[*DashboardStats](ctx, c, http.MethodGet, "/api/dashboard/stats", nil)
}

// GlobalSearch calls GET /api/search/global
func (c *Client) GlobalSearch(ctx context.Context, query string) (*GlobalSearchResult, error) {
	return call[*GlobalSearchResult](ctx, c, http.MethodGet, "/api/search/global?query="+url.QueryEscape(query), nil)
}
