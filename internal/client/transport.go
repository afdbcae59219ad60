// ABOUTME: RoundTripper middleware for outgoing API requests
// ABOUTME: Request-ID logging and bearer injection with a single-shot 401 expiry policy

package client

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Middleware wraps a RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain applies middleware to a transport in order.
// The first middleware in the list is the outermost (executes first).
func Chain(rt http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	for i := len(middlewares) - 1; i >= 0; i-- {
		rt = middlewares[i](rt)
	}
	return rt
}

// CredentialSource supplies the bearer token and is told when it was rejected.
// gen identifies the session the token belongs to.
type CredentialSource interface {
	Credential() (token string, gen uint64)
	Expire(gen uint64)
}

type noRecoveryKey struct{}

// WithoutAuthRecovery marks requests whose 401 means "wrong credentials"
// rather than "session expired". Such requests never expire the session.
func WithoutAuthRecovery(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRecoveryKey{}, true)
}

func authRecoveryDisabled(ctx context.Context) bool {
	v, _ := ctx.Value(noRecoveryKey{}).(bool)
	return v
}

// RequestID stamps each request with an X-Request-ID and logs start and completion.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
				r = r.Clone(r.Context())
				r.Header.Set("X-Request-ID", requestID)
			}

			slog.Debug("Request started",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
			)

			resp, err := next.RoundTrip(r)
			if err != nil {
				slog.Debug("Request failed",
					"request_id", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
					"latency_ms", time.Since(start).Milliseconds(),
				)
				return nil, err
			}

			slog.Debug("Request completed",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", resp.StatusCode,
				"latency_ms", time.Since(start).Milliseconds(),
			)
			return resp, nil
		})
	}
}

// Authorization attaches the bearer token from src and expires the session
// the token came from when the backend answers 401.
func Authorization(src CredentialSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if src == nil {
				return next.RoundTrip(r)
			}
			token, gen := src.Credential()
			if token != "" {
				r = r.Clone(r.Context())
				r.Header.Set("Authorization", "Bearer "+token)
			}

			resp, err := next.RoundTrip(r)
			if err != nil {
				return nil, err
			}
			if token != "" && resp.StatusCode == http.StatusUnauthorized && !authRecoveryDisabled(r.Context()) {
				slog.Info("Credential rejected, expiring session", "path", r.URL.Path)
				src.Expire(gen)
			}
			return resp, nil
		})
	}
}
