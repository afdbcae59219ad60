// ABOUTME: Tests for TUI screen routing and async result handling
// ABOUTME: Runs commands against an httptest backend and feeds results back into the app

package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flyair/flyair-cli/internal/client"
	"github.com/flyair/flyair-cli/internal/session"
	"github.com/flyair/flyair-cli/internal/storage"
	"github.com/flyair/flyair-cli/internal/tui/login"
	"github.com/flyair/flyair-cli/internal/tui/menu"
	"github.com/flyair/flyair-cli/internal/tui/recentsearches"
	"github.com/flyair/flyair-cli/internal/tui/search"
	"github.com/flyair/flyair-cli/internal/tui/wizard"
)

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": status < 300, "data": data})
}

// collect runs cmd and any batched commands, returning the messages that
// arrive promptly. Timer-driven commands such as cursor blinks are skipped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(300 * time.Millisecond):
		return nil
	}
}

func find[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("expected a %T among %d messages", zero, len(msgs))
	return zero
}

func newApp(t *testing.T, handler http.Handler, user *client.User) (*App, *session.Manager) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sess := session.New(storage.NewMemoryStore())
	sess.Initialize(context.Background())
	if user != nil {
		if err := sess.Login(context.Background(), "tok-1", user); err != nil {
			t.Fatalf("Login() error: %v", err)
		}
	}
	c := client.New(server.URL, client.WithCredentials(sess))
	sess.SetProfileFetcher(c)

	app := New(Deps{Client: c, Session: sess, Recent: recentsearches.New(t.TempDir())})
	return app, sess
}

var traveler = &client.User{ID: "1", Username: "ada", FirstName: "Ada", LastName: "Lovelace", Role: client.RoleUser}

func TestNew_StartsAtLoginWithoutSession(t *testing.T) {
	app, _ := newApp(t, http.NotFoundHandler(), nil)
	if app.Screen() != ScreenLogin {
		t.Errorf("expected login screen, got %d", app.Screen())
	}
}

func TestNew_StartsAtMenuWithSession(t *testing.T) {
	app, _ := newApp(t, http.NotFoundHandler(), traveler)
	if app.Screen() != ScreenMenu {
		t.Errorf("expected menu screen, got %d", app.Screen())
	}
}

func TestLogin_Success(t *testing.T) {
	app, sess := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"accessToken": "tok-2",
			"user":        map[string]any{"id": 1, "username": "ada", "role": "USER"},
		})
	}), nil)

	_, cmd := app.Update(login.SubmitMsg{Username: "ada", Password: "secret"})
	if !app.busy {
		t.Error("expected busy while logging in")
	}
	app.Update(find[authResultMsg](t, collect(cmd)))

	if app.Screen() != ScreenMenu {
		t.Fatalf("expected menu after login, got %d", app.Screen())
	}
	if st := sess.State(); !st.IsAuthenticated || st.Token != "tok-2" {
		t.Errorf("expected session to hold tok-2, got %+v", st)
	}
}

func TestLogin_InvalidCredentialsStaysOnLogin(t *testing.T) {
	app, _ := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil)
	}), nil)

	_, cmd := app.Update(login.SubmitMsg{Username: "ada", Password: "wrong"})
	app.Update(find[authResultMsg](t, collect(cmd)))

	if app.Screen() != ScreenLogin {
		t.Fatalf("expected login screen, got %d", app.Screen())
	}
	if !strings.Contains(app.View(), "invalid username or password") {
		t.Error("expected invalid credentials message")
	}
}

func TestLogin_TwoFactor(t *testing.T) {
	var gotTemp string
	app, sess := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			writeEnvelope(w, http.StatusOK, map[string]any{"requiresTwoFactor": true, "temporaryToken": "tmp-1"})
		case "/api/auth/verify-2fa":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			gotTemp = body["temporaryToken"]
			writeEnvelope(w, http.StatusOK, map[string]any{
				"accessToken": "tok-3",
				"user":        map[string]any{"id": 1, "username": "ada"},
			})
		}
	}), nil)

	_, cmd := app.Update(login.SubmitMsg{Username: "ada", Password: "secret"})
	app.Update(find[authResultMsg](t, collect(cmd)))
	if app.loginView.Phase() != login.PhaseTwoFactor {
		t.Fatal("expected two-factor phase")
	}

	_, cmd = app.Update(login.CodeMsg{Code: "123456"})
	app.Update(find[authResultMsg](t, collect(cmd)))

	if gotTemp != "tmp-1" {
		t.Errorf("expected temporary token tmp-1, got %q", gotTemp)
	}
	if app.Screen() != ScreenMenu || sess.State().Token != "tok-3" {
		t.Errorf("expected menu with tok-3, screen=%d token=%q", app.Screen(), sess.State().Token)
	}
}

func TestSessionExpiredReturnsToLogin(t *testing.T) {
	app, _ := newApp(t, http.NotFoundHandler(), traveler)

	app.Update(sessionExpiredMsg{})
	if app.Screen() != ScreenLogin {
		t.Fatalf("expected login screen, got %d", app.Screen())
	}
	if !strings.Contains(app.View(), "session has expired") {
		t.Error("expected expiry notice")
	}
}

func TestUnauthorizedLoadExpiresOnce(t *testing.T) {
	app, sess := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil)
	}), traveler)

	var mu sync.Mutex
	expired := 0
	sess.SetOnExpired(func() {
		mu.Lock()
		expired++
		mu.Unlock()
	})

	_, cmd := app.Update(menu.SelectedMsg{Action: menu.ActionBookings})
	app.Update(find[tripsLoadedMsg](t, collect(cmd)))

	mu.Lock()
	defer mu.Unlock()
	if expired != 1 {
		t.Errorf("expected one expiry for two concurrent 401s, got %d", expired)
	}
	if sess.State().IsAuthenticated {
		t.Error("expected session cleared")
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	app, sess := newApp(t, http.NotFoundHandler(), traveler)
	gen := app.generation()

	if err := sess.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	sess.Login(context.Background(), "tok-9", traveler)

	app.Update(flightsLoadedMsg{gen: gen, flights: []client.Flight{{ID: "1"}}})
	if app.Screen() != ScreenMenu {
		t.Errorf("expected stale flights ignored, got screen %d", app.Screen())
	}
}

func TestSearchRecordsRecentAndShowsFlights(t *testing.T) {
	price := 200.0
	app, _ := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/flights/search" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, []client.Flight{{ID: "5", FlightNumber: "FA100", Price: &price}})
	}), traveler)

	filters := client.SearchFilters{DepartureAirportCode: "JFK", ArrivalAirportCode: "LAX", Passengers: 1}
	_, cmd := app.Update(search.SearchMsg{Filters: filters})
	app.Update(find[flightsLoadedMsg](t, collect(cmd)))

	if app.Screen() != ScreenFlights {
		t.Fatalf("expected flights screen, got %d", app.Screen())
	}
	if !strings.Contains(app.View(), "FA100") {
		t.Error("expected flight in results")
	}
	if recent := app.recent.List(); len(recent) != 1 || recent[0].DepartureAirportCode != "JFK" {
		t.Errorf("expected search recorded, got %+v", recent)
	}
}

func TestBookingFlow(t *testing.T) {
	price := 200.0
	var bookingBody client.CreateBookingRequest
	app, _ := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/flight-seats/flight/5/available":
			writeEnvelope(w, http.StatusOK, []client.Seat{{ID: "11", SeatNumber: "12A", SeatClass: client.SeatBusiness, Price: 50}})
		case "/api/bookings":
			json.NewDecoder(r.Body).Decode(&bookingBody)
			writeEnvelope(w, http.StatusOK, client.Booking{ID: "77", FlightID: "5", Status: client.BookingConfirmed, TotalPrice: 250})
		case "/api/bookings/my-bookings":
			writeEnvelope(w, http.StatusOK, []client.Booking{{ID: "77", FlightID: "5", PassengerName: "Ada Lovelace", TotalPrice: 250}})
		case "/api/tickets/my-tickets":
			writeEnvelope(w, http.StatusOK, []client.Ticket{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), traveler)

	app.Update(flightsLoadedMsg{gen: app.generation(), flights: []client.Flight{{ID: "5", FlightNumber: "FA100", Price: &price}}})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app.Update(find[seatsLoadedMsg](t, collect(cmd)))

	if app.Screen() != ScreenWizard {
		t.Fatalf("expected wizard screen, got %d", app.Screen())
	}
	if app.wizard == nil || app.draft == nil {
		t.Fatal("expected wizard and draft")
	}

	seat := client.Seat{ID: "11", SeatNumber: "12A", Price: 50}
	app.draft.SelectSeat(&seat)
	app.draft.Advance()
	app.draft.SetPassengerName("Ada Lovelace")
	app.draft.Advance()
	if got := app.draft.TotalPrice(); got != 250 {
		t.Errorf("expected total 250, got %v", got)
	}

	_, cmd = app.Update(wizard.SubmitMsg{})
	_, cmd = app.Update(find[bookingSubmittedMsg](t, collect(cmd)))
	app.Update(find[tripsLoadedMsg](t, collect(cmd)))

	if bookingBody.PassengerName != "Ada Lovelace" || bookingBody.SeatNumber != "12A" || bookingBody.FlightID != "5" {
		t.Errorf("unexpected booking request %+v", bookingBody)
	}
	if app.Screen() != ScreenBookings {
		t.Fatalf("expected bookings screen, got %d", app.Screen())
	}
	if app.draft != nil {
		t.Error("expected draft discarded after success")
	}
	if !strings.Contains(app.View(), "Booking #77 confirmed") {
		t.Error("expected confirmation notice")
	}
}

func TestAbandonedBookingResultIgnored(t *testing.T) {
	price := 100.0
	app, _ := newApp(t, http.NotFoundHandler(), traveler)
	app.Update(flightsLoadedMsg{gen: app.generation(), flights: []client.Flight{{ID: "5", Price: &price}}})

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	draft := app.draft
	app.busy = false
	app.Update(wizard.CancelledMsg{})

	app.Update(bookingSubmittedMsg{draft: draft, booking: &client.Booking{ID: "1"}})
	if app.Screen() != ScreenFlights {
		t.Errorf("expected to stay on flights, got %d", app.Screen())
	}
	if draft.Active() {
		t.Error("expected cancelled draft to be inactive")
	}
}

func TestTicketCheckIn(t *testing.T) {
	app, _ := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tickets/3/check-in" || r.Method != http.MethodPatch {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, client.Ticket{ID: "3", Status: client.TicketCheckedIn})
	}), traveler)

	app.Update(tripsLoadedMsg{
		gen:     app.generation(),
		next:    ScreenTickets,
		tickets: []client.Ticket{{ID: "3", Status: client.TicketIssued, SeatNumber: "4C"}},
	})
	if app.Screen() != ScreenTickets {
		t.Fatalf("expected tickets screen, got %d", app.Screen())
	}

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	app.Update(find[ticketUpdatedMsg](t, collect(cmd)))

	if app.tickets[0].Status != client.TicketCheckedIn {
		t.Errorf("expected checked-in ticket, got %s", app.tickets[0].Status)
	}
	if !strings.Contains(app.View(), "Checked In") {
		t.Error("expected updated status in list")
	}
}

func TestTicketCancelRejectedLocally(t *testing.T) {
	app, _ := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	}), traveler)

	app.Update(tripsLoadedMsg{
		gen:     app.generation(),
		next:    ScreenTickets,
		tickets: []client.Ticket{{ID: "3", Status: client.TicketBoarded}},
	})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd != nil {
		t.Error("expected no request for a boarded ticket")
	}
	if !strings.Contains(app.View(), "boarded") {
		t.Error("expected notice explaining the ticket state")
	}
}

func TestAdminRequiresAdmin(t *testing.T) {
	app, _ := newApp(t, http.NotFoundHandler(), traveler)
	_, cmd := app.Update(menu.SelectedMsg{Action: menu.ActionAdmin})
	if cmd != nil || app.Screen() != ScreenMenu {
		t.Error("expected admin action ignored for a traveler")
	}
}

func TestAdminDashboard(t *testing.T) {
	admin := &client.User{ID: "2", Username: "root", Role: client.RoleAdmin}
	app, _ := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, client.DashboardStats{TotalFlights: 42, TotalUsers: 9})
	}), admin)

	_, cmd := app.Update(menu.SelectedMsg{Action: menu.ActionAdmin})
	app.Update(find[statsLoadedMsg](t, collect(cmd)))

	if app.Screen() != ScreenAdmin {
		t.Fatalf("expected admin screen, got %d", app.Screen())
	}
	if !strings.Contains(app.View(), "42") {
		t.Error("expected flight total on dashboard")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	app, sess := newApp(t, http.NotFoundHandler(), traveler)
	app.Update(menu.SelectedMsg{Action: menu.ActionLogout})

	if app.Screen() != ScreenLogin {
		t.Errorf("expected login screen, got %d", app.Screen())
	}
	if sess.State().IsAuthenticated {
		t.Error("expected session cleared")
	}
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	app, _ := newApp(t, http.NotFoundHandler(), traveler)
	app.busy = true
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		t.Error("expected keys ignored while busy")
	}
}
