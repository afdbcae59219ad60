// ABOUTME: Tests for the admin dashboard and profile panel
// ABOUTME: Checks rendered content rather than exact layout

package dashboard

import (
	"strings"
	"testing"

	"github.com/flyair/flyair-cli/internal/client"
)

func TestView_Loading(t *testing.T) {
	d := New(nil, 80)
	if !strings.Contains(d.View(), "Loading dashboard") {
		t.Error("expected loading message")
	}
}

func TestView_Stats(t *testing.T) {
	stats := &client.DashboardStats{
		TotalFlights:  12,
		TotalBookings: 340,
		TotalRevenue:  98765.4,
		TotalUsers:    57,
		RecentBookings: []client.Booking{
			{ID: "1", FlightID: "4", PassengerName: "Ada Lovelace", Status: client.BookingConfirmed, TotalPrice: 300},
		},
	}
	d := New(stats, 120)
	out := d.View()

	for _, want := range []string{"12", "340", "$98765.40", "57", "Ada Lovelace", "#4", "$300.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected dashboard to contain %q", want)
		}
	}
}

func TestView_NoRecentBookings(t *testing.T) {
	d := New(&client.DashboardStats{}, 40)
	if !strings.Contains(d.View(), "none") {
		t.Error("expected empty booking feed")
	}
}

func TestView_TrimsRecentBookings(t *testing.T) {
	var recent []client.Booking
	for _, name := range []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"} {
		recent = append(recent, client.Booking{PassengerName: name})
	}
	out := New(&client.DashboardStats{RecentBookings: recent}, 80).View()
	if strings.Contains(out, "p6") {
		t.Error("expected feed trimmed to five bookings")
	}
}

func TestProfile(t *testing.T) {
	out := Profile(&client.User{
		Username:         "ada",
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            "ada@example.com",
		Role:             client.RoleAdmin,
		TwoFactorEnabled: true,
	})
	for _, want := range []string{"Ada Lovelace", "ada@example.com", "ADMIN", "on"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected profile to contain %q", want)
		}
	}
	if strings.Contains(out, "Phone") {
		t.Error("expected empty phone to be omitted")
	}
}

func TestProfile_Nil(t *testing.T) {
	if !strings.Contains(Profile(nil), "No profile") {
		t.Error("expected placeholder for nil user")
	}
}
