// ABOUTME: User and profile endpoints, including password change and 2FA enrollment

package client

import (
	"context"
	"net/http"
	"net/url"
)

// Profile calls GET /api/users/profile
func (c *Client) Profile(ctx context.Context) (*User, error) {
	return call[*User](ctx, c, http.MethodGet, "/api/users/profile", nil)
}

// UpdateProfile calls PUT /api/users/profile
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	return call[*User](ctx, c, http.MethodPut, "/api/users/profile", update)
}

// ChangePassword calls POST /api/users/change-password
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	_, err := call[*MessageResponse](ctx, c, http.MethodPost, "/api/users/change-password",
		map[string]string{"currentPassword": currentPassword, "newPassword": newPassword})
	return err
}

// EnableTwoFactor calls POST /api/users/enable-2fa
func (c *Client) EnableTwoFactor(ctx context.Context) (*TwoFactorSetup, error) {
	return call[*TwoFactorSetup](ctx, c, http.MethodPost, "/api/users/enable-2fa", nil)
}

// ConfirmTwoFactor calls POST /api/users/confirm-2fa
func (c *Client) ConfirmTwoFactor(ctx context.Context, code string) error {
	_, err := call[*MessageResponse](ctx, c, http.MethodPost, "/api/users/confirm-2fa?code="+url.QueryEscape(code), nil)
	return err
}

// ListUsers calls GET /api/users
func (c *Client) ListUsers(ctx context.Context, params ListParams) (Page[User], error) {
	return call[Page[User]](ctx, c, http.MethodGet, "/api/users"+params.Query(), nil)
}

// UpdateUser calls PUT /api/users/{id}
func (c *Client) UpdateUser(ctx context.Context, id ID, update ProfileUpdate) (*User, error) {
	return call[*User](ctx, c, http.MethodPut, "/api/users/"+url.PathEscape(id.String()), update)
}
