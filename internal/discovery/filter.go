package discovery

import (
	"slices"
	"strings"
	"time"

	"event-discovery/internal/domain"

	"golang.org/x/text/cases"
)

// Criteria is the complete set of discovery choices for one pass. The zero
// value imposes no restriction and keeps recency order.
type Criteria struct {
	Query       string
	City        string
	Date        time.Time // calendar day; zero means any
	Categories  []string
	Cities      []string
	DateBuckets []DateBucket
	Price       *PriceRange
	FreeOnly    bool
	Sort        SortKey
}

// Filter returns the events that satisfy every active facet, in input order.
func Filter(events []domain.Event, c Criteria, now time.Time) []domain.Event {
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(c.Query))
	city := fold.String(strings.TrimSpace(c.City))

	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if query != "" && !matchesQuery(fold, e, query) {
			continue
		}
		if city != "" && !strings.Contains(fold.String(e.Location), city) {
			continue
		}
		if len(c.Categories) > 0 && !slices.Contains(c.Categories, e.Category) {
			continue
		}
		if len(c.Cities) > 0 && !containsAny(e.Location, c.Cities) {
			continue
		}
		if !c.Date.IsZero() || len(c.DateBuckets) > 0 {
			date := EventDate(e, now)
			if !c.Date.IsZero() && !IsSameDay(date, c.Date) {
				continue
			}
			if len(c.DateBuckets) > 0 && !matchesAnyBucket(date, now, c.DateBuckets) {
				continue
			}
		}
		if !admitsPrice(c, ParsePrice(e.Price)) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesQuery(fold cases.Caser, e domain.Event, query string) bool {
	return strings.Contains(fold.String(e.Title), query) ||
		strings.Contains(fold.String(e.Description), query) ||
		strings.Contains(fold.String(e.Category), query)
}

func containsAny(location string, cities []string) bool {
	for _, city := range cities {
		if strings.Contains(location, city) {
			return true
		}
	}
	return false
}

func matchesAnyBucket(date, now time.Time, buckets []DateBucket) bool {
	for _, b := range buckets {
		if b.Match(date, now) {
			return true
		}
	}
	return false
}

func admitsPrice(c Criteria, p Price) bool {
	if c.FreeOnly {
		return p.IsFree()
	}
	if c.Price == nil {
		return true
	}
	return c.Price.Admits(p)
}

// FilterAndSort runs the filter stage and then the sort stage.
func FilterAndSort(events []domain.Event, c Criteria, now time.Time) []domain.Event {
	return Sort(Filter(events, c, now), c.Sort, now)
}
