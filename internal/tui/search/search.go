// ABOUTME: Flight search form screen
// ABOUTME: Collects route, date, passengers, and cabin class, prefilled from the last search

package search

import (
	"errors"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/flyair/flyair-cli/internal/client"
	"github.com/flyair/flyair-cli/internal/tui/icons"
	"github.com/flyair/flyair-cli/internal/tui/styles"
)

// SearchMsg is sent when the form is completed
type SearchMsg struct {
	Filters client.SearchFilters
}

const anyClass = "ANY"

// Search is the flight search screen
type Search struct {
	from       string
	to         string
	date       string
	passengers string
	class      string
	form       *huh.Form
}

// New builds the form. When last is non-nil its values prefill the fields.
func New(last *client.SearchFilters) *Search {
	s := &Search{passengers: "1", class: anyClass}
	if last != nil {
		s.from = last.DepartureAirportCode
		s.to = last.ArrivalAirportCode
		s.date = last.DepartureDate
		if last.Passengers > 0 {
			s.passengers = strconv.Itoa(last.Passengers)
		}
		if last.Class != "" {
			s.class = last.Class
		}
	}
	s.form = s.buildForm()
	return s
}

func (s *Search) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("From").
				Description("Departure airport code, blank for any").
				CharLimit(4).
				Value(&s.from),
			huh.NewInput().
				Title("To").
				Description("Arrival airport code, blank for any").
				CharLimit(4).
				Value(&s.to),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&s.date).
				Validate(validateDate),
			huh.NewInput().
				Title("Passengers").
				CharLimit(1).
				Value(&s.passengers).
				Validate(validatePassengers),
			huh.NewSelect[string]().
				Title("Class").
				Options(
					huh.NewOption("Any", anyClass),
					huh.NewOption("Economy", string(client.SeatEconomy)),
					huh.NewOption("Business", string(client.SeatBusiness)),
					huh.NewOption("First", string(client.SeatFirst)),
				).
				Value(&s.class),
		).Title(icons.Search.String()+" Search flights"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func validateDate(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validatePassengers(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 || n > 9 {
		return errors.New("between 1 and 9")
	}
	return nil
}

// Filters returns the filters the form currently describes.
func (s *Search) Filters() client.SearchFilters {
	f := client.SearchFilters{
		DepartureAirportCode: strings.ToUpper(strings.TrimSpace(s.from)),
		ArrivalAirportCode:   strings.ToUpper(strings.TrimSpace(s.to)),
		DepartureDate:        strings.TrimSpace(s.date),
		Passengers:           1,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s.passengers)); err == nil && n > 0 {
		f.Passengers = n
	}
	if s.class != anyClass {
		f.Class = s.class
	}
	return f
}

// Init implements tea.Model
func (s *Search) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *Search) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if s.form.State == huh.StateCompleted {
		filters := s.Filters()
		s.form = s.buildForm()
		return s, tea.Batch(s.form.Init(), func() tea.Msg { return SearchMsg{Filters: filters} })
	}
	return s, cmd
}

// View implements tea.Model
func (s *Search) View() string {
	return s.form.View()
}
