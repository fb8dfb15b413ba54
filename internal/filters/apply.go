package filters

import (
	"sort"

	"github.com/angelmondragon/smokehouse-backend/internal/catalog"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	"github.com/angelmondragon/smokehouse-backend/pkg/pagination"
)

// Apply filters the listing by state and orders the survivors. The input
// slice is not modified. Selected facet values that no product in the listing
// carries are ignored.
func Apply(products []catalog.Product, category string, state State) []catalog.Product {
	facets := Applicable(category)
	selected := liveSelection(products, facets, state.Selected)
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if matches(p, facets, selected, state) {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j], state.Sort)
	})
	return out
}

// liveSelection drops selected values that are not observed in products.
func liveSelection(products []catalog.Product, facets []Facet, selected map[Facet][]string) map[Facet][]string {
	out := make(map[Facet][]string, len(selected))
	for _, facet := range facets {
		wanted := selected[facet]
		if len(wanted) == 0 {
			continue
		}
		observed := make(map[string]struct{}, len(products))
		for _, p := range products {
			observed[facet.Value(p)] = struct{}{}
		}
		live := make([]string, 0, len(wanted))
		for _, v := range wanted {
			if _, ok := observed[v]; ok {
				live = append(live, v)
			}
		}
		if len(live) > 0 {
			out[facet] = live
		}
	}
	return out
}

func matches(p catalog.Product, facets []Facet, selected map[Facet][]string, state State) bool {
	if p.Price.LessThan(state.PriceMin) || p.Price.GreaterThan(state.PriceMax) {
		return false
	}
	if state.OnlySale && !p.HasDiscount() {
		return false
	}
	for _, facet := range facets {
		values := selected[facet]
		if len(values) == 0 {
			continue
		}
		if !contains(values, facet.Value(p)) {
			return false
		}
	}
	return true
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}

func less(a, b catalog.Product, key enums.SortKey) bool {
	if a.Available() != b.Available() {
		return a.Available()
	}
	switch key {
	case enums.SortPriceAsc:
		return a.Price.LessThan(b.Price)
	case enums.SortPriceDesc:
		return a.Price.GreaterThan(b.Price)
	default:
		return a.IsHit() && !b.IsHit()
	}
}

// Paginate returns the requested page of the list with its window metadata.
func Paginate(list []catalog.Product, page int) ([]catalog.Product, pagination.Page) {
	window := pagination.Resolve(len(list), page, pagination.DefaultPageSize)
	return list[window.Start:window.End], window
}
