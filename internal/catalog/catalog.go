package catalog

import (
	"fmt"
	"sort"

	"event-explorer/internal/apperr"
	"event-explorer/internal/logger"
	"event-explorer/internal/models"
)

// AllCategories is the display sentinel that heads Categories(). It never
// reaches the query engine as a category value.
const AllCategories = "All"

var categories = []string{
	AllCategories,
	"Music",
	"Sports",
	"Arts & Culture",
	"Technology",
	"Food & Drink",
	"Networking",
	"Family",
	"Health & Wellness",
}

var popularSearches = []string{
	"Music festivals",
	"Tech conferences",
	"Art exhibitions",
	"Food events",
	"Sports games",
	"Networking events",
}

// Store is the read-only event catalog. Order is load order.
type Store struct {
	events []models.Event
	index  map[int]int
}

// New validates events and builds the catalog. Records that break an
// invariant are logged and skipped; a duplicate id is an error.
func New(events []models.Event, log *logger.Logger) (*Store, error) {
	s := &Store{
		events: make([]models.Event, 0, len(events)),
		index:  make(map[int]int, len(events)),
	}
	for _, e := range events {
		if err := e.Validate(); err != nil {
			log.Warn("CATALOG", fmt.Sprintf("Skipping invalid event: %v", err))
			continue
		}
		if _, dup := s.index[e.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate event id %d", e.ID)
		}
		s.index[e.ID] = len(s.events)
		s.events = append(s.events, e)
	}
	return s, nil
}

func (s *Store) Len() int {
	return len(s.events)
}

// All returns a copy of the full catalog in load order.
func (s *Store) All() []models.Event {
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Store) ByID(id int) (models.Event, error) {
	i, ok := s.index[id]
	if !ok {
		return models.Event{}, fmt.Errorf("event %d: %w", id, apperr.ErrNotFound)
	}
	return s.events[i], nil
}

func (s *Store) Has(id int) bool {
	_, ok := s.index[id]
	return ok
}

// Categories returns the display taxonomy, "All" first.
func (s *Store) Categories() []string {
	return append([]string(nil), categories...)
}

func (s *Store) Featured() []models.Event {
	return s.filter(func(e models.Event) bool { return e.IsFeatured })
}

func (s *Store) ByCategory(category string) []models.Event {
	return s.filter(func(e models.Event) bool { return e.Category == category })
}

// Nearby returns every event. Distance ranking is not implemented; the
// coordinates are accepted so callers do not change when it is.
func (s *Store) Nearby(latitude, longitude, radiusKm float64) []models.Event {
	return s.All()
}

func (s *Store) PopularSearches() []string {
	return append([]string(nil), popularSearches...)
}

// Cities lists the distinct venue cities, sorted.
func (s *Store) Cities() []string {
	seen := make(map[string]bool)
	var cities []string
	for _, e := range s.events {
		if e.Venue.City == "" || seen[e.Venue.City] {
			continue
		}
		seen[e.Venue.City] = true
		cities = append(cities, e.Venue.City)
	}
	sort.Strings(cities)
	return cities
}

// Select returns the events whose ids are in ids, in catalog order.
func (s *Store) Select(ids []int) []models.Event {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return s.filter(func(e models.Event) bool { return want[e.ID] })
}

func (s *Store) filter(keep func(models.Event) bool) []models.Event {
	out := []models.Event{}
	for _, e := range s.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
