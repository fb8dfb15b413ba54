package filters

import (
	"sort"
	"strconv"
	"strings"

	"github.com/angelmondragon/smokehouse-backend/internal/catalog"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Facet names a product attribute that can be filtered on.
type Facet string

const (
	FacetBrand       Facet = "brand"
	FacetCountry     Facet = "country"
	FacetTasteGroup  Facet = "tasteGroup"
	FacetFlavor      Facet = "flavor"
	FacetDisplay     Facet = "display"
	FacetMaterial    Facet = "material"
	FacetPowerMode   Facet = "powerMode"
	FacetControlType Facet = "controlType"
	FacetResistance  Facet = "resistance"
	FacetVolume      Facet = "volume"
)

var allFacets = []Facet{
	FacetBrand,
	FacetCountry,
	FacetTasteGroup,
	FacetFlavor,
	FacetDisplay,
	FacetMaterial,
	FacetPowerMode,
	FacetControlType,
	FacetResistance,
	FacetVolume,
}

var facetsByCategory = map[enums.ProductCategory][]Facet{
	enums.ProductCategoryLiquids: {FacetCountry, FacetTasteGroup, FacetFlavor},
	enums.ProductCategoryPods:    {FacetDisplay, FacetMaterial, FacetPowerMode, FacetControlType},
	enums.ProductCategoryParts:   {FacetResistance, FacetVolume},
}

// AllFacets lists every known facet.
func AllFacets() []Facet {
	out := make([]Facet, len(allFacets))
	copy(out, allFacets)
	return out
}

// ParseFacet converts a query parameter name into a Facet.
func ParseFacet(value string) (Facet, bool) {
	for _, f := range allFacets {
		if string(f) == value {
			return f, true
		}
	}
	return "", false
}

// Applicable returns the facets offered for a category slug. Brand always applies.
func Applicable(category string) []Facet {
	extra := facetsByCategory[enums.NormalizeProductCategory(category)]
	out := make([]Facet, 0, 1+len(extra))
	out = append(out, FacetBrand)
	return append(out, extra...)
}

// Value extracts the facet attribute from a product.
func (f Facet) Value(p catalog.Product) string {
	switch f {
	case FacetBrand:
		return p.Brand
	case FacetCountry:
		return p.Country
	case FacetTasteGroup:
		return p.TasteGroup
	case FacetFlavor:
		return p.Flavor
	case FacetDisplay:
		return p.Display
	case FacetMaterial:
		return p.Material
	case FacetPowerMode:
		return p.PowerMode
	case FacetControlType:
		return p.ControlType
	case FacetResistance:
		return p.Resistance
	case FacetVolume:
		return p.Volume
	default:
		return ""
	}
}

func (f Facet) numeric() bool {
	return f == FacetResistance || f == FacetVolume
}

// Facets returns the distinct non-empty values of every applicable facet.
func Facets(products []catalog.Product, category string) map[Facet][]string {
	col := collate.New(language.Ukrainian, collate.Numeric)
	out := make(map[Facet][]string)
	for _, facet := range Applicable(category) {
		seen := make(map[string]struct{})
		values := make([]string, 0)
		for _, p := range products {
			v := facet.Value(p)
			if strings.TrimSpace(v) == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		sortValues(col, facet, values)
		out[facet] = values
	}
	return out
}

func sortValues(col *collate.Collator, facet Facet, values []string) {
	sort.SliceStable(values, func(i, j int) bool {
		if facet.numeric() {
			a, okA := leadingFloat(values[i])
			b, okB := leadingFloat(values[j])
			switch {
			case okA && okB && a != b:
				return a < b
			case okA != okB:
				return okA
			}
		}
		return col.CompareString(values[i], values[j]) < 0
	})
}

func leadingFloat(raw string) (float64, bool) {
	raw = strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	end := 0
	for end < len(raw) && (raw[end] == '.' || (raw[end] >= '0' && raw[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw[:end], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
