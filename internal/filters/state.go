package filters

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/smokehouse-backend/internal/catalog"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

var defaultMaxPrice = decimal.NewFromInt(1000)

// State is the filter selection applied to a category listing. Selected
// facet values absent from the listing are inert. A price range outside the
// listing yields an empty result.
type State struct {
	PriceMin decimal.Decimal    `json:"priceMin"`
	PriceMax decimal.Decimal    `json:"priceMax"`
	OnlySale bool               `json:"onlySale"`
	Selected map[Facet][]string `json:"selected"`
	Sort     enums.SortKey      `json:"sort"`
	Page     int                `json:"page"`
}

// DefaultState spans the full price range of the listing.
func DefaultState(products []catalog.Product) State {
	maxPrice := defaultMaxPrice
	if len(products) > 0 {
		maxPrice = products[0].Price
		for _, p := range products[1:] {
			if p.Price.GreaterThan(maxPrice) {
				maxPrice = p.Price
			}
		}
	}
	return State{
		PriceMin: decimal.Zero,
		PriceMax: maxPrice,
		Selected: map[Facet][]string{},
		Sort:     enums.SortRelevance,
		Page:     1,
	}
}

// FromQuery overlays listing query parameters on base. Unknown parameters are ignored.
func FromQuery(values url.Values, base State) (State, error) {
	state := base
	state.Selected = make(map[Facet][]string, len(base.Selected))
	for k, v := range base.Selected {
		state.Selected[k] = append([]string(nil), v...)
	}

	details := map[string]string{}
	if raw := strings.TrimSpace(values.Get("min")); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			state.PriceMin = v
		} else {
			details["min"] = "must be a number"
		}
	}
	if raw := strings.TrimSpace(values.Get("max")); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			state.PriceMax = v
		} else {
			details["max"] = "must be a number"
		}
	}
	if raw := strings.TrimSpace(values.Get("sale")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			state.OnlySale = v
		} else {
			details["sale"] = "must be a boolean"
		}
	}
	if raw := values.Get("sort"); raw != "" {
		if key, err := enums.ParseSortKey(raw); err == nil {
			state.Sort = key
		} else {
			details["sort"] = "must be one of relevance, low-high, high-low"
		}
	}
	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			state.Page = pagination.NormalizePage(v)
		} else {
			details["page"] = "must be an integer"
		}
	}
	for _, facet := range allFacets {
		selected := make([]string, 0)
		for _, v := range values[string(facet)] {
			if v = strings.TrimSpace(v); v != "" {
				selected = append(selected, v)
			}
		}
		if len(selected) > 0 {
			state.Selected[facet] = selected
		}
	}

	if len(details) > 0 {
		return base, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing filters").WithDetails(details)
	}
	return state, nil
}
