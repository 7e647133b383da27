// Package query filters and orders catalog events. Everything here is pure
// except the Sequencer, which only tracks which call is current.
package query

import (
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"event-explorer/internal/models"
)

// Run applies spec to events and returns a new, stably sorted slice.
// events is not modified.
func Run(events []models.Event, spec FilterSpec) []models.Event {
	keep := predicates(spec)

	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if matchesAll(e, keep) {
			out = append(out, e)
		}
	}

	sortEvents(out, spec.SortBy)
	return out
}

type predicate func(models.Event) bool

func matchesAll(e models.Event, preds []predicate) bool {
	for _, p := range preds {
		if !p(e) {
			return false
		}
	}
	return true
}

func predicates(spec FilterSpec) []predicate {
	var preds []predicate

	if text := strings.ToLower(spec.SearchText); text != "" {
		preds = append(preds, func(e models.Event) bool {
			return strings.Contains(strings.ToLower(e.Name), text) ||
				strings.Contains(strings.ToLower(e.Description), text) ||
				strings.Contains(strings.ToLower(e.Category), text)
		})
	}

	if len(spec.Categories) > 0 {
		set := make(map[string]bool, len(spec.Categories))
		for _, c := range spec.Categories {
			set[c] = true
		}
		preds = append(preds, func(e models.Event) bool { return set[e.Category] })
	}

	if city := strings.ToLower(spec.City); city != "" {
		preds = append(preds, func(e models.Event) bool {
			return strings.Contains(strings.ToLower(e.Venue.City), city)
		})
	}

	if start := spec.Dates.Start; !start.IsZero() {
		preds = append(preds, func(e models.Event) bool { return !e.StartDateTime.Before(start) })
	}
	if !spec.Dates.End.IsZero() {
		end := endOfDay(spec.Dates.End)
		preds = append(preds, func(e models.Event) bool { return !e.StartDateTime.After(end) })
	}

	// Price bounds apply to price.min only. A NaN bound is no bound.
	price := spec.Price
	if math.IsNaN(price.Min) {
		price.Min = 0
	}
	if price.Max != nil && math.IsNaN(*price.Max) {
		price.Max = nil
	}
	if price.Min > 0 || price.Max != nil {
		preds = append(preds, func(e models.Event) bool {
			if e.Price.Min < price.Min {
				return false
			}
			return price.Max == nil || e.Price.Min <= *price.Max
		})
	}

	if minRating := spec.MinRating; minRating > 0 {
		preds = append(preds, func(e models.Event) bool { return e.Rating >= minRating })
	}

	switch spec.EventType {
	case EventTypeOnline:
		preds = append(preds, func(e models.Event) bool { return e.IsOnline })
	case EventTypeInPerson, "offline":
		preds = append(preds, func(e models.Event) bool { return !e.IsOnline })
	}

	return preds
}

// endOfDay returns 23:59:59.999 of t's calendar day in t's location.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func sortEvents(events []models.Event, by SortBy) {
	var less func(a, b models.Event) bool

	switch by {
	case SortPrice:
		less = func(a, b models.Event) bool { return a.Price.Min < b.Price.Min }
	case SortRating:
		less = func(a, b models.Event) bool { return a.Rating > b.Rating }
	case SortName:
		// Collators keep scratch buffers, so each Run gets its own.
		c := collate.New(language.English)
		less = func(a, b models.Event) bool { return c.CompareString(a.Name, b.Name) < 0 }
	default:
		less = func(a, b models.Event) bool { return a.StartDateTime.Before(b.StartDateTime) }
	}

	sort.SliceStable(events, func(i, j int) bool { return less(events[i], events[j]) })
}
