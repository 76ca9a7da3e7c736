package discovery

import (
	"cmp"
	"slices"
	"time"

	"event-discovery/internal/domain"
)

type SortKey string

const (
	SortLatest    SortKey = "latest"
	SortPopular   SortKey = "popular"
	SortDate      SortKey = "date"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

// Sort returns a reordered copy. Equal keys keep their relative order.
// SortLatest and unknown keys keep the caller's order, which is newest first.
func Sort(events []domain.Event, key SortKey, now time.Time) []domain.Event {
	sorted := slices.Clone(events)

	switch key {
	case SortPopular:
		slices.SortStableFunc(sorted, func(a, b domain.Event) int {
			return cmp.Compare(b.Attendees, a.Attendees)
		})
	case SortDate:
		sortByProximity(sorted, now)
	case SortPriceLow:
		slices.SortStableFunc(sorted, func(a, b domain.Event) int {
			return cmp.Compare(ParsePrice(a.Price).Value(), ParsePrice(b.Price).Value())
		})
	case SortPriceHigh:
		slices.SortStableFunc(sorted, func(a, b domain.Event) int {
			return cmp.Compare(ParsePrice(b.Price).Value(), ParsePrice(a.Price).Value())
		})
	}
	return sorted
}

// sortByProximity puts today and future events first, then past ones; inside
// each group the event closest to now comes first.
func sortByProximity(events []domain.Event, now time.Time) {
	type keyed struct {
		event    domain.Event
		upcoming bool
		distance time.Duration
	}
	today := startOfDay(now)
	decorated := make([]keyed, len(events))
	for i, e := range events {
		date := EventDate(e, now)
		d := date.Sub(now)
		if d < 0 {
			d = -d
		}
		decorated[i] = keyed{event: e, upcoming: !date.Before(today), distance: d}
	}

	slices.SortStableFunc(decorated, func(a, b keyed) int {
		if a.upcoming != b.upcoming {
			if a.upcoming {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.distance, b.distance)
	})
	for i, k := range decorated {
		events[i] = k.event
	}
}
