package catalog

import (
	"sort"
	"strings"

	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	SlugSales = "sales"
	SlugNew   = "new"

	relatedLimit = 4
)

// ListBySlug selects the products shown on a category page. The virtual
// slugs "sales" and "new" match on labels; any other slug is a category.
func ListBySlug(products []Product, slug string) []Product {
	slug = strings.ToLower(strings.TrimSpace(slug))
	out := make([]Product, 0)
	for _, p := range products {
		switch slug {
		case SlugSales:
			if p.HasSale() {
				out = append(out, p)
			}
		case SlugNew:
			if p.IsNew() {
				out = append(out, p)
			}
		default:
			if p.Category == slug {
				out = append(out, p)
			}
		}
	}
	return out
}

// StartsOnSale reports whether a listing should open with the sale-only filter enabled.
func StartsOnSale(slug string) bool {
	return strings.EqualFold(strings.TrimSpace(slug), SlugSales)
}

// FindByID looks up a product by identifier, ignoring surrounding whitespace.
func FindByID(products []Product, id string) (Product, bool) {
	id = strings.TrimSpace(id)
	for _, p := range products {
		if strings.TrimSpace(p.ID) == id {
			return p, true
		}
	}
	return Product{}, false
}

// VariantLabel names a product among its group siblings.
func VariantLabel(p Product) string {
	if p.Category == string(enums.ProductCategoryParts) {
		switch {
		case p.Resistance != "":
			return p.Resistance + " Ом"
		case p.Volume != "":
			return p.Volume + " мл"
		default:
			return p.Name
		}
	}
	switch {
	case p.Flavor != "":
		return p.Flavor
	case p.Color != "":
		return p.Color
	default:
		return p.Name
	}
}

// Variants returns the products sharing the group and category of product,
// itself included, ordered by label. A lone product has no variants.
func Variants(product Product, all []Product) []Product {
	if product.GroupID == "" {
		return []Product{}
	}
	siblings := make([]Product, 0)
	for _, p := range all {
		if p.GroupID == product.GroupID && p.Category == product.Category {
			siblings = append(siblings, p)
		}
	}
	if len(siblings) <= 1 {
		return []Product{}
	}

	col := collate.New(language.Ukrainian, collate.Numeric)
	sort.SliceStable(siblings, func(i, j int) bool {
		return col.CompareString(VariantLabel(siblings[i]), VariantLabel(siblings[j])) < 0
	})
	return siblings
}

// Related returns up to four products from the same category outside the product's group.
func Related(product Product, all []Product) []Product {
	out := make([]Product, 0, relatedLimit)
	for _, p := range all {
		if len(out) == relatedLimit {
			break
		}
		if p.Category != product.Category || p.GroupID == product.GroupID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// AddonsFor returns the add-ons offered for product.
func AddonsFor(product Product) []Addon {
	if !product.AcceptsAddons() {
		return []Addon{}
	}
	return Addons()
}
