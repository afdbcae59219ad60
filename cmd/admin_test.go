// ABOUTME: Tests for the admin commands
// ABOUTME: Verifies role gating, dashboard output, and boarding rules

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flyair/flyair-cli/internal/client"
)

func TestAdmin_RequiresAdminRole(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	storeSession(t, dir, traveler)

	var buf bytes.Buffer
	assert.Equal(t, exitFailure, runAdminStats(context.Background(), &buf))
	assert.Contains(t, buf.String(), "administrator")
}

func TestAdmin_RequiresLogin(t *testing.T) {
	useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	var buf bytes.Buffer
	assert.Equal(t, exitAuth, runAdminUsers(context.Background(), &buf, client.ListParams{}))
}

func TestAdminStats(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-root", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, client.DashboardStats{
			TotalFlights: 12, TotalBookings: 40, TotalRevenue: 15250.5, TotalUsers: 9,
			RecentBookings: []client.Booking{{ID: "900", PassengerName: "Ada Lovelace", Status: client.BookingConfirmed}},
		})
	})
	storeSession(t, dir, operator)

	var buf bytes.Buffer
	assert.Equal(t, exitOK, runAdminStats(context.Background(), &buf), buf.String())
	for _, want := range []string{"12", "40", "$15250.50", "Ada Lovelace"} {
		assert.Contains(t, buf.String(), want)
	}
}

func TestAdminUsers_PagingQuery(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("size"))
		writeEnvelope(w, http.StatusOK, map[string]any{
			"content": []client.User{*traveler}, "totalElements": 6, "totalPages": 2,
		})
	})
	storeSession(t, dir, operator)

	var buf bytes.Buffer
	assert.Equal(t, exitOK, runAdminUsers(context.Background(), &buf, client.ListParams{Page: 1, Size: 5}))
	assert.Contains(t, buf.String(), "ada@example.com")
	assert.Contains(t, buf.String(), "Page 2 of 2 (6 total)")
}

func TestAdminFlightStatus(t *testing.T) {
	var body map[string]string
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/flights/42/status", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&body)
		writeEnvelope(w, http.StatusOK, client.Flight{ID: "42", Status: client.FlightDelayed})
	})
	storeSession(t, dir, operator)

	var buf bytes.Buffer
	assert.Equal(t, exitOK, runAdminFlightStatus(context.Background(), &buf, "42", "delayed"), buf.String())
	assert.Equal(t, "DELAYED", body["status"])
}

func TestAdminFlightStatus_Invalid(t *testing.T) {
	useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	var buf bytes.Buffer
	assert.Equal(t, exitFailure, runAdminFlightStatus(context.Background(), &buf, "42", "LATE"))
}

func TestAdminBoard(t *testing.T) {
	tests := []struct {
		name     string
		status   client.TicketStatus
		wantCode int
		boarded  bool
	}{
		{"checked in", client.TicketCheckedIn, exitOK, true},
		{"issued", client.TicketIssued, exitFailure, false},
		{"cancelled", client.TicketCancelled, exitFailure, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boarded := false
			dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					writeEnvelope(w, http.StatusOK, []client.Ticket{{ID: "t1", Status: tt.status}})
				case http.MethodPatch:
					assert.Equal(t, "/api/tickets/t1/board", r.URL.Path)
					boarded = true
					writeEnvelope(w, http.StatusOK, client.Ticket{ID: "t1", Status: client.TicketBoarded})
				}
			})
			storeSession(t, dir, operator)

			var buf bytes.Buffer
			assert.Equal(t, tt.wantCode, runAdminBoard(context.Background(), &buf, "t1"), buf.String())
			assert.Equal(t, tt.boarded, boarded)
		})
	}
}

func TestFormatUsers(t *testing.T) {
	assert.Equal(t, "No users.", formatUsers(nil))
	out := formatUsers([]client.User{*operator})
	assert.Contains(t, out, "Grace Hopper")
	assert.Contains(t, out, "ADMIN")
	assert.Contains(t, out, "-")
}

func TestAdminUserActivation(t *testing.T) {
	tests := []struct {
		name   string
		run    func(context.Context, *bytes.Buffer) int
		active bool
	}{
		{"deactivate", func(ctx context.Context, w *bytes.Buffer) int { return runAdminSetActive(ctx, w, "7", false) }, false},
		{"activate", func(ctx context.Context, w *bytes.Buffer) int { return runAdminSetActive(ctx, w, "7", true) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/api/users/7", r.URL.Path)
				json.NewDecoder(r.Body).Decode(&body)
				u := *traveler
				u.IsActive = tt.active
				writeEnvelope(w, http.StatusOK, u)
			})
			storeSession(t, dir, operator)

			var buf bytes.Buffer
			assert.Equal(t, exitOK, tt.run(context.Background(), &buf), buf.String())
			assert.Equal(t, tt.active, body["isActive"])
			assert.NotContains(t, body, "role")
			assert.Contains(t, buf.String(), "ada")
		})
	}
}

func TestAdminUserRole(t *testing.T) {
	var body map[string]any
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/7", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&body)
		u := *traveler
		u.Role = client.RoleAdmin
		writeEnvelope(w, http.StatusOK, u)
	})
	storeSession(t, dir, operator)

	var buf bytes.Buffer
	assert.Equal(t, exitOK, runAdminSetRole(context.Background(), &buf, "7", "admin"), buf.String())
	assert.Equal(t, "ADMIN", body["role"])
	assert.NotContains(t, body, "isActive")
	assert.Contains(t, buf.String(), "is now ADMIN")
}

func TestAdminUserRole_Invalid(t *testing.T) {
	useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	var buf bytes.Buffer
	assert.Equal(t, exitFailure, runAdminSetRole(context.Background(), &buf, "7", "PILOT"))
	assert.Contains(t, buf.String(), "unknown role")
}

func TestAdminUpdateUser_RefusesOwnAccount(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	storeSession(t, dir, operator)

	var buf bytes.Buffer
	assert.Equal(t, exitFailure, runAdminSetActive(context.Background(), &buf, operator.ID, false))
	assert.Equal(t, exitFailure, runAdminSetRole(context.Background(), &buf, operator.ID, "USER"))
}

func TestAdminUpdateUser_RequiresAdminRole(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	storeSession(t, dir, traveler)

	var buf bytes.Buffer
	assert.Equal(t, exitFailure, runAdminSetActive(context.Background(), &buf, "9", false))
}

func TestAdminSeats(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/seats", r.URL.Path)
		assert.Equal(t, "12A", r.URL.Query().Get("searchTerm"))
		writeEnvelope(w, http.StatusOK, map[string]any{
			"content": []client.Seat{
				{ID: "s1", FlightID: "42", SeatNumber: "12A", SeatClass: client.SeatBusiness, Price: 120, IsAvailable: true},
			},
			"totalElements": 1, "totalPages": 1,
		})
	})
	storeSession(t, dir, operator)

	var buf bytes.Buffer
	code := runAdminSeats(context.Background(), &buf, client.ListParams{SearchTerm: "12A"})

	assert.Equal(t, exitOK, code, buf.String())
	for _, want := range []string{"s1", "12A", "BUSINESS", "$120.00", "Page 1 of 1 (1 total)"} {
		assert.Contains(t, buf.String(), want)
	}
}

func TestAdminSeats_Empty(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []client.Seat{})
	})
	storeSession(t, dir, operator)

	var buf bytes.Buffer
	assert.Equal(t, exitOK, runAdminSeats(context.Background(), &buf, client.ListParams{}))
	assert.Contains(t, buf.String(), "No seats.")
}

func TestAdminSeatDelete(t *testing.T) {
	deleted := ""
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		deleted = r.URL.Path
		writeEnvelope(w, http.StatusOK, nil)
	})
	storeSession(t, dir, operator)

	var buf bytes.Buffer
	assert.Equal(t, exitOK, runAdminSeatDelete(context.Background(), &buf, "s1"), buf.String())
	assert.Equal(t, "/api/seats/s1", deleted)
	assert.Contains(t, buf.String(), "Seat s1 deleted.")
}

func TestAdminSeatDelete_NotFound(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, nil)
	})
	storeSession(t, dir, operator)

	var buf bytes.Buffer
	assert.Equal(t, exitFailure, runAdminSeatDelete(context.Background(), &buf, "s9"))
}
