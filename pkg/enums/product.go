package enums

import (
	"fmt"
	"strings"
)

// ProductCategory is the normalized category column of the catalog sheet.
type ProductCategory string

const (
	ProductCategoryLiquids ProductCategory = "liquids"
	ProductCategoryPods    ProductCategory = "pods"
	ProductCategoryKits    ProductCategory = "kits"
	ProductCategoryParts   ProductCategory = "parts"
	ProductCategoryOther   ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryLiquids,
	ProductCategoryPods,
	ProductCategoryKits,
	ProductCategoryParts,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// NormalizeProductCategory trims and lower-cases a raw sheet value. Unknown
// values are preserved so that new sheet categories still group correctly.
func NormalizeProductCategory(value string) ProductCategory {
	return ProductCategory(strings.ToLower(strings.TrimSpace(value)))
}

// ParseProductCategory converts raw input into a known ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	normalized := NormalizeProductCategory(value)
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
