// ABOUTME: Compact metric block widget for the admin dashboard
// ABOUTME: Renders an icon title in the border above a value and a subtitle

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flyair/flyair-cli/internal/tui/icons"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       24,
		BorderColor: lipgloss.Color("#6B7280"),
		TitleColor:  lipgloss.Color("#2563EB"),
		ValueColor:  lipgloss.Color("#F9FAFB"),
	}
}

// MetricBlock renders a compact metric display block
func MetricBlock(icon icons.Icon, title, value, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 24
	}
	innerWidth := config.Width - 4

	titleStr := truncate(fmt.Sprintf("%s %s", icon.String(), title), innerWidth)
	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)
	topBorder := "┌─ " + titleStyle.Render(titleStr) + " " +
		strings.Repeat("─", max(0, config.Width-5-lipgloss.Width(titleStr))) + "┐"

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	line := func(s string) string {
		return "│  " + s + strings.Repeat(" ", max(0, innerWidth-lipgloss.Width(s))) + "│"
	}

	bottomBorder := "└" + strings.Repeat("─", config.Width-2) + "┘"
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)

	return strings.Join([]string{
		borderStyle.Render(topBorder),
		borderStyle.Render(line(valueStyle.Render(truncate(value, innerWidth-1)))),
		borderStyle.Render(line(subtitleStyle.Render(truncate(subtitle, innerWidth-1)))),
		borderStyle.Render(bottomBorder),
	}, "\n")
}

// CountBlock renders a simple count metric
func CountBlock(icon icons.Icon, title string, count int64, label string, config MetricBlockConfig) string {
	return MetricBlock(icon, title, fmt.Sprintf("%d", count), label, config)
}

// truncate shortens a string to maxLen runes with ellipsis if needed
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(0, maxLen)])
	}
	return string(r[:maxLen-3]) + "..."
}
