package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type EventType string

const (
	EventTypeAny      EventType = "any"
	EventTypeOnline   EventType = "online"
	EventTypeInPerson EventType = "in-person"
)

type SortBy string

const (
	SortDate   SortBy = "date"
	SortPrice  SortBy = "price"
	SortRating SortBy = "rating"
	SortName   SortBy = "name"
)

// DisplayAll is the category chip that means "no category selected".
const DisplayAll = "All"

// DateRange bounds startDateTime. A zero time is an open bound.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// PriceRange bounds price.min. A nil Max is unbounded.
type PriceRange struct {
	Min float64
	Max *float64
}

// FilterSpec is built fresh for every query. Zero fields match everything.
type FilterSpec struct {
	SearchText string
	Categories []string
	City       string
	Dates      DateRange
	Price      PriceRange
	MinRating  float64
	EventType  EventType
	SortBy     SortBy
}

// FromDisplayCategory turns the selected category chip into a filter set.
func FromDisplayCategory(category string) []string {
	category = strings.TrimSpace(category)
	if category == "" || category == DisplayAll {
		return nil
	}
	return []string{category}
}

// ParseSpec decodes query parameters into a FilterSpec. Values that do not
// parse are dropped, so a bad parameter widens the result instead of failing.
//
//	q, category (repeatable or comma separated), city, from, to,
//	minPrice, maxPrice, minRating, type, sort
func ParseSpec(v url.Values) FilterSpec {
	spec := FilterSpec{
		SearchText: strings.TrimSpace(v.Get("q")),
		City:       strings.TrimSpace(v.Get("city")),
		EventType:  parseEventType(v.Get("type")),
		SortBy:     parseSortBy(v.Get("sort")),
	}

	for _, raw := range v["category"] {
		for _, c := range strings.Split(raw, ",") {
			spec.Categories = append(spec.Categories, FromDisplayCategory(c)...)
		}
	}

	if t, ok := parseDate(v.Get("from")); ok {
		spec.Dates.Start = t
	}
	if t, ok := parseDate(v.Get("to")); ok {
		spec.Dates.End = t
	}
	if f, ok := parseNonNegative(v.Get("minPrice")); ok {
		spec.Price.Min = f
	}
	if f, ok := parseNonNegative(v.Get("maxPrice")); ok {
		spec.Price.Max = &f
	}
	if f, ok := parseNonNegative(v.Get("minRating")); ok {
		spec.MinRating = f
	}
	return spec
}

func parseEventType(s string) EventType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online":
		return EventTypeOnline
	case "in-person", "offline":
		return EventTypeInPerson
	default:
		return EventTypeAny
	}
}

func parseSortBy(s string) SortBy {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortPrice:
		return SortPrice
	case SortRating:
		return SortRating
	case SortName:
		return SortName
	default:
		return SortDate
	}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func parseNonNegative(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
