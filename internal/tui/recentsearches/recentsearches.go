// ABOUTME: Remembers the last few flight searches for the TUI search form
// ABOUTME: Stored as JSON in the FlyAir config directory

package recentsearches

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/flyair/flyair-cli/internal/client"
)

// MaxRecent is the maximum number of searches kept
const MaxRecent = 5

const fileName = "recent-searches.json"

// Recent manages the list of recent searches
type Recent struct {
	configDir string
	searches  []client.SearchFilters
}

type recentData struct {
	Searches []client.SearchFilters `json:"searches"`
}

// New creates a Recent manager rooted at configDir
func New(configDir string) *Recent {
	return &Recent{configDir: configDir}
}

func (r *Recent) path() string {
	return filepath.Join(r.configDir, fileName)
}

// Load reads the list from disk. A missing or invalid file yields an empty list.
func (r *Recent) Load() ([]client.SearchFilters, error) {
	data, err := os.ReadFile(r.path())
	if errors.Is(err, fs.ErrNotExist) {
		r.searches = []client.SearchFilters{}
		return r.searches, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		r.searches = []client.SearchFilters{}
		return r.searches, nil
	}
	r.searches = recent.Searches
	return r.searches, nil
}

// Save writes searches to disk, trimmed to MaxRecent.
func (r *Recent) Save(searches []client.SearchFilters) error {
	if err := os.MkdirAll(r.configDir, 0o700); err != nil {
		return err
	}
	if len(searches) > MaxRecent {
		searches = searches[:MaxRecent]
	}
	r.searches = searches

	data, err := json.MarshalIndent(recentData{Searches: searches}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path(), data, 0o600)
}

// Add puts f at the front, dropping an earlier identical route.
func (r *Recent) Add(f client.SearchFilters) error {
	if r.searches == nil {
		if _, err := r.Load(); err != nil {
			r.searches = []client.SearchFilters{}
		}
	}

	next := make([]client.SearchFilters, 0, len(r.searches)+1)
	next = append(next, f)
	for _, s := range r.searches {
		if !sameRoute(s, f) {
			next = append(next, s)
		}
	}
	return r.Save(next)
}

// List returns the current list, loading it on first use
func (r *Recent) List() []client.SearchFilters {
	if r.searches == nil {
		r.Load()
	}
	return r.searches
}

func sameRoute(a, b client.SearchFilters) bool {
	return strings.EqualFold(a.DepartureAirportCode, b.DepartureAirportCode) &&
		strings.EqualFold(a.ArrivalAirportCode, b.ArrivalAirportCode) &&
		a.DepartureDate == b.DepartureDate
}

// Label renders a search as "JFK → LAX 2024-06-01".
func Label(f client.SearchFilters) string {
	from, to := strings.ToUpper(f.DepartureAirportCode), strings.ToUpper(f.ArrivalAirportCode)
	if from == "" {
		from = "any"
	}
	if to == "" {
		to = "any"
	}
	label := from + " → " + to
	if f.DepartureDate != "" {
		label += " " + f.DepartureDate
	}
	return label
}
