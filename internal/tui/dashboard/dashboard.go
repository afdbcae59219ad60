// ABOUTME: Admin dashboard showing airline totals and recent bookings
// ABOUTME: Lays metric blocks side by side above a short booking feed

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flyair/flyair-cli/internal/client"
	"github.com/flyair/flyair-cli/internal/tui/icons"
	"github.com/flyair/flyair-cli/internal/tui/styles"
	"github.com/flyair/flyair-cli/internal/tui/widgets"
)

// maxRecent bounds the booking feed.
const maxRecent = 5

// Dashboard displays admin statistics
type Dashboard struct {
	stats *client.DashboardStats
	width int
}

// New creates a dashboard. stats may be nil while loading.
func New(stats *client.DashboardStats, width int) *Dashboard {
	return &Dashboard{stats: stats, width: width}
}

// SetStats replaces the displayed statistics
func (d *Dashboard) SetStats(stats *client.DashboardStats) {
	d.stats = stats
}

// SetSize updates the dashboard width
func (d *Dashboard) SetSize(width int) {
	d.width = width
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.stats == nil {
		return styles.Panel.Render("Loading dashboard...")
	}

	cfg := widgets.DefaultMetricBlockConfig()
	blocks := []string{
		widgets.CountBlock(icons.Plane, "Flights", d.stats.TotalFlights, "scheduled", cfg),
		widgets.CountBlock(icons.Booking, "Bookings", d.stats.TotalBookings, "all time", cfg),
		widgets.MetricBlock(icons.Revenue, "Revenue", styles.Money(d.stats.TotalRevenue), "gross", cfg),
		widgets.CountBlock(icons.Users, "Users", d.stats.TotalUsers, "registered", cfg),
	}

	var rows []string
	perRow := max(1, d.width/(cfg.Width+1))
	for len(blocks) > 0 {
		n := min(perRow, len(blocks))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, spaced(blocks[:n])...))
		blocks = blocks[n:]
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Admin.String() + " Admin dashboard"))
	sb.WriteString("\n")
	sb.WriteString(strings.Join(rows, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtitle.Render("Recent bookings"))
	sb.WriteString("\n")
	sb.WriteString(d.recentBookings())
	return sb.String()
}

func spaced(blocks []string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, b)
	}
	return out
}

func (d *Dashboard) recentBookings() string {
	if len(d.stats.RecentBookings) == 0 {
		return styles.Subtitle.Render("  none")
	}
	var lines []string
	for i, b := range d.stats.RecentBookings {
		if i == maxRecent {
			break
		}
		route := "#" + b.FlightID.String()
		if b.Flight != nil {
			route = b.Flight.Route()
		}
		lines = append(lines, fmt.Sprintf("  %s %-20s %-14s %s",
			widgets.StatusIcon(widgets.BookingLevel(b.Status)),
			b.PassengerName,
			route,
			styles.PriceStyle.Render(styles.Money(b.TotalPrice)),
		))
	}
	return strings.Join(lines, "\n")
}
