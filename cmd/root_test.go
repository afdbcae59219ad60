// ABOUTME: Shared helpers for command tests
// ABOUTME: Points the CLI at an httptest backend and seeds a stored session

package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flyair/flyair-cli/internal/client"
	"github.com/flyair/flyair-cli/internal/session"
	"github.com/flyair/flyair-cli/internal/storage"
)

var (
	traveler = &client.User{ID: "7", Username: "ada", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: client.RoleUser, IsActive: true}
	operator = &client.User{ID: "1", Username: "root", FirstName: "Grace", LastName: "Hopper", Role: client.RoleAdmin, IsActive: true}
)

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": status < 300, "data": data})
}

// useBackend points the global flags at a test server and a temporary
// config directory, returning the directory.
func useBackend(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("FLYAIR_STORAGE", "file")
	dir := t.TempDir()
	apiURL, configDir, logLevel = server.URL, dir, "error"
	t.Cleanup(func() {
		apiURL, configDir, logLevel, jsonOutput = "", "", "", false
	})
	return dir
}

// storeSession writes a session to dir the way login does.
func storeSession(t *testing.T, dir string, user *client.User) {
	t.Helper()
	m := session.New(storage.NewFileStore(dir))
	if err := m.Login(context.Background(), "tok-"+user.Username, user); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
}

func loadSession(t *testing.T, dir string) session.State {
	t.Helper()
	m := session.New(storage.NewFileStore(dir))
	m.Initialize(context.Background())
	return m.State()
}
