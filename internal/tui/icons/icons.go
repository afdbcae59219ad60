// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// nerdFontTerminals commonly ship with a patched font.
var nerdFontTerminals = []string{
	"iTerm.app",
	"alacritty",
	"WezTerm",
	"kitty",
	"ghostty",
}

func detectNerdFonts() bool {
	if env := os.Getenv("FLYAIR_NERD_FONTS"); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")
	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	return os.Getenv("NERD_FONTS") == "1"
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Travel
	Plane   = Icon{"󰀝", "✈"} // nf-md-airplane
	Seat    = Icon{"󰟀", "▤"} // nf-md-seat_passenger
	Ticket  = Icon{"󰗀", "▭"} // nf-md-ticket
	Booking = Icon{"󰃮", "▦"} // nf-md-calendar_check
	Search  = Icon{"󰍉", "⌕"} // nf-md-magnify
	Payment = Icon{"󰆛", "$"} // nf-md-credit_card

	// People
	User  = Icon{"󰀄", "☺"} // nf-md-account
	Users = Icon{"󰡉", "☷"} // nf-md-account_group
	Admin = Icon{"󰒃", "⛊"} // nf-md-shield_check
	Lock  = Icon{"󰌾", "⚿"} // nf-md-lock

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Actions
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Logout  = Icon{"󰍃", "⏏"} // nf-md-logout
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app

	// Application
	App     = Icon{"󰀝", "✈"} // nf-md-airplane
	Revenue = Icon{"󰄔", "¤"} // nf-md-cash
)
