// ABOUTME: Session manager: the single owner of the logged-in token and user profile
// ABOUTME: Mirrors the session into durable storage and expires it once per rejected credential

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/flyair/flyair-cli/internal/client"
	"github.com/flyair/flyair-cli/internal/storage"
)

// Storage keys. No other package writes them.
const (
	TokenKey = "authToken"
	UserKey  = "authUser"
)

// storageTimeout bounds storage calls that have no caller context.
const storageTimeout = 5 * time.Second

// ErrIncomplete is returned by Login when the token or user is missing.
var ErrIncomplete = errors.New("session requires both a token and a user")

// ProfileFetcher loads the current user's profile from the backend.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*client.User, error)
}

// State is a point-in-time snapshot of the session.
type State struct {
	User            *client.User
	Token           string
	IsAuthenticated bool
	IsAdmin         bool
	Loading         bool
}

// Manager holds the session. Create one per process with New and share it.
type Manager struct {
	store storage.Store

	mu        sync.Mutex
	token     string
	user      *client.User
	loading   bool
	gen       uint64
	fetcher   ProfileFetcher
	onExpired func()

	refresh singleflight.Group
}

// New returns an empty, loading session backed by store.
func New(store storage.Store) *Manager {
	return &Manager{store: store, loading: true}
}

// SetProfileFetcher installs the fetcher used by RefreshProfile.
func (m *Manager) SetProfileFetcher(f ProfileFetcher) {
	m.mu.Lock()
	m.fetcher = f
	m.mu.Unlock()
}

// SetOnExpired installs the callback run after a rejected credential clears
// the session. It runs without locks held.
func (m *Manager) SetOnExpired(fn func()) {
	m.mu.Lock()
	m.onExpired = fn
	m.mu.Unlock()
}

// Initialize restores the session from storage. A missing or unreadable half
// clears both keys. It never returns an error and always ends loading.
func (m *Manager) Initialize(ctx context.Context) {
	token, user := m.restore(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.token, m.user = token, user
	m.loading = false
	if token != "" {
		slog.Debug("Session restored", "user", user.Username)
	}
}

func (m *Manager) restore(ctx context.Context) (string, *client.User) {
	token, hasToken, err := m.store.Get(ctx, TokenKey)
	if err != nil {
		slog.Warn("Failed to read session token", "error", err)
		m.wipe(ctx)
		return "", nil
	}
	rawUser, hasUser, err := m.store.Get(ctx, UserKey)
	if err != nil {
		slog.Warn("Failed to read session user", "error", err)
		m.wipe(ctx)
		return "", nil
	}
	if !hasToken || !hasUser || token == "" {
		if hasToken || hasUser {
			slog.Debug("Discarding partial session")
			m.wipe(ctx)
		}
		return "", nil
	}

	var user client.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		slog.Warn("Discarding corrupt session user", "error", err)
		m.wipe(ctx)
		return "", nil
	}
	return token, &user
}

// Login replaces any existing session. The in-memory session is set even if
// persisting it fails; that failure is returned for the caller to report.
func (m *Manager) Login(ctx context.Context, token string, user *client.User) error {
	if token == "" || user == nil {
		return ErrIncomplete
	}
	u := *user
	raw, err := json.Marshal(&u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.token, m.user = token, &u
	m.loading = false

	if err := m.store.Set(ctx, TokenKey, token); err != nil {
		slog.Warn("Failed to persist session token", "error", err)
		return fmt.Errorf("session not saved: %w", err)
	}
	if err := m.store.Set(ctx, UserKey, string(raw)); err != nil {
		slog.Warn("Failed to persist session user", "error", err)
		m.wipe(ctx)
		return fmt.Errorf("session not saved: %w", err)
	}
	slog.Info("Logged in", "user", u.Username, "role", u.Role)
	return nil
}

// Logout clears the session locally. The backend is not contacted.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.token, m.user = "", nil
	m.loading = false
	return m.wipe(ctx)
}

// RefreshProfile reloads the user from the backend and keeps the token.
// Without a session it does nothing. Failures leave the session unchanged.
// Results that arrive after a logout or re-login are discarded.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.Lock()
	token, gen, fetcher := m.token, m.gen, m.fetcher
	m.mu.Unlock()

	if token == "" {
		slog.Debug("Profile refresh skipped: not logged in")
		return nil
	}
	if fetcher == nil {
		return errors.New("no profile fetcher configured")
	}

	// Only callers of the same generation share a fetch.
	_, err, _ := m.refresh.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		user, err := fetcher.Profile(ctx)
		if err != nil {
			slog.Warn("Profile refresh failed", "error", err)
			return nil, err
		}
		if user == nil {
			return nil, errors.New("profile response was empty")
		}
		m.applyProfile(ctx, gen, user)
		return nil, nil
	})
	return err
}

func (m *Manager) applyProfile(ctx context.Context, gen uint64, user *client.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen || m.token == "" {
		slog.Debug("Discarding stale profile refresh")
		return
	}
	u := *user
	m.user = &u

	raw, err := json.Marshal(&u)
	if err == nil {
		err = m.store.Set(ctx, UserKey, string(raw))
	}
	if err != nil {
		slog.Warn("Failed to persist refreshed profile", "error", err)
	}
}

// State returns a snapshot of the session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{Token: m.token, Loading: m.loading}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	s.IsAuthenticated = s.Token != "" && s.User != nil
	s.IsAdmin = s.User != nil && s.User.Role == client.RoleAdmin
	return s
}

// Credential returns the bearer token and the generation it belongs to.
func (m *Manager) Credential() (string, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.gen
}

// Expire clears the session if gen is still current. Later calls carrying the
// same generation are ignored, so concurrent 401s clear and notify once.
func (m *Manager) Expire(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.token == "" {
		m.mu.Unlock()
		return
	}
	m.gen++
	m.token, m.user = "", nil

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	m.wipe(ctx)
	cancel()

	cb := m.onExpired
	m.mu.Unlock()

	slog.Info("Session expired")
	if cb != nil {
		cb()
	}
}

func (m *Manager) wipe(ctx context.Context) error {
	if err := m.store.Delete(ctx, TokenKey, UserKey); err != nil {
		slog.Warn("Failed to clear stored session", "error", err)
		return fmt.Errorf("failed to clear stored session: %w", err)
	}
	return nil
}

var _ client.CredentialSource = (*Manager)(nil)
