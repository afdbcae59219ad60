// ABOUTME: Tests for badge and metric block widgets
// ABOUTME: Validates status mapping, humanized labels, and block geometry

package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/flyair/flyair-cli/internal/client"
	"github.com/flyair/flyair-cli/internal/tui/icons"
)

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"CHECKED_IN": "Checked In",
		"CONFIRMED":  "Confirmed",
		"":           "",
	}
	for in, want := range tests {
		if got := Humanize(in); got != want {
			t.Errorf("Humanize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTicketLevel(t *testing.T) {
	if TicketLevel(client.TicketCheckedIn) != StatusOK {
		t.Error("checked-in tickets should be OK")
	}
	if TicketLevel(client.TicketCancelled) != StatusCritical {
		t.Error("cancelled tickets should be critical")
	}
	if TicketLevel(client.TicketBoarded) != StatusNeutral {
		t.Error("boarded tickets should be neutral")
	}
}

func TestFlightLevel(t *testing.T) {
	if FlightLevel(client.FlightDelayed) != StatusWarning {
		t.Error("delayed flights should warn")
	}
	if FlightLevel("SOMETHING_NEW") != StatusInfo {
		t.Error("unknown statuses should be informational")
	}
}

func TestBadgeContainsText(t *testing.T) {
	if !strings.Contains(Badge("Delayed", StatusWarning), "Delayed") {
		t.Error("badge should render its text")
	}
}

func TestMetricBlockWidth(t *testing.T) {
	cfg := DefaultMetricBlockConfig()
	block := MetricBlock(icons.Plane, "Flights", "1,204", "scheduled this month", cfg)

	for i, line := range strings.Split(block, "\n") {
		if w := lipgloss.Width(line); w != cfg.Width {
			t.Errorf("line %d width = %d, want %d: %q", i, w, cfg.Width, line)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Errorf("unexpected truncation %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Errorf("short strings should be unchanged, got %q", got)
	}
}
