// ABOUTME: Authentication endpoints: login, 2FA verification, registration, password reset
// ABOUTME: All are tagged so a 401 reports bad credentials instead of expiring the session

package client

import (
	"context"
	"errors"
	"net/http"
)

// Login calls POST /api/auth/login
func (c *Client) Login(ctx context.Context, username, password string) (*AuthenticationResponse, error) {
	resp, err := call[*AuthenticationResponse](WithoutAuthRecovery(ctx), c, http.MethodPost, "/api/auth/login",
		LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	return checkAuthResponse(resp)
}

// VerifyTwoFactor calls POST /api/auth/verify-2fa
func (c *Client) VerifyTwoFactor(ctx context.Context, temporaryToken, code string) (*AuthenticationResponse, error) {
	resp, err := call[*AuthenticationResponse](WithoutAuthRecovery(ctx), c, http.MethodPost, "/api/auth/verify-2fa",
		VerifyTwoFactorRequest{TemporaryToken: temporaryToken, Code: code})
	if err != nil {
		return nil, err
	}
	return checkAuthResponse(resp)
}

// Register calls POST /api/auth/register
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	return call[*User](WithoutAuthRecovery(ctx), c, http.MethodPost, "/api/auth/register", req)
}

// ForgotPassword calls POST /api/auth/forgot-password
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := call[*MessageResponse](WithoutAuthRecovery(ctx), c, http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": email})
	return err
}

// ResetPassword calls POST /api/auth/reset-password
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := call[*MessageResponse](WithoutAuthRecovery(ctx), c, http.MethodPost, "/api/auth/reset-password",
		map[string]string{"token": token, "newPassword": newPassword})
	return err
}

// checkAuthResponse rejects payloads that neither grant a session nor ask for a second factor.
func checkAuthResponse(resp *AuthenticationResponse) (*AuthenticationResponse, error) {
	if resp == nil {
		return nil, errors.New("invalid response from backend: missing authentication data")
	}
	if resp.RequiresTwoFactor {
		if resp.TemporaryToken == "" {
			return nil, errors.New("invalid response from backend: missing temporary token")
		}
		return resp, nil
	}
	if resp.AccessToken == "" || resp.User == nil {
		return nil, errors.New("invalid response from backend: missing token or user")
	}
	return resp, nil
}
