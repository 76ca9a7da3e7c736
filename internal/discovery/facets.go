package discovery

import (
	"strings"

	"event-discovery/internal/domain"
)

// FacetCategories and FacetCities are the values offered in the filter sidebar.
var (
	FacetCategories = []string{"音乐", "科技", "体育", "艺术", "教育", "娱乐", "美食", "健康"}
	FacetCities     = []string{"北京", "上海", "广州", "深圳", "杭州", "成都"}
)

// CountFacets counts the whole collection, never a filtered view, so the
// numbers show total availability whatever else is selected.
func CountFacets(events []domain.Event) domain.Facets {
	facets := domain.Facets{
		Categories: make(map[string]int, len(FacetCategories)),
		Cities:     make(map[string]int, len(FacetCities)),
	}
	for _, c := range FacetCategories {
		facets.Categories[c] = 0
	}
	for _, e := range events {
		facets.Categories[e.Category]++
	}
	for _, city := range FacetCities {
		n := 0
		for _, e := range events {
			if strings.Contains(e.Location, city) {
				n++
			}
		}
		facets.Cities[city] = n
	}
	return facets
}
