package catalog

import (
	"strings"

	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// UnlimitedStock is assigned when the sheet leaves the quantity blank or "-".
const UnlimitedStock = 999

// DefaultBannerLink is used for banners without an explicit link.
const DefaultBannerLink = "/category/sales"

// Product is one parsed catalog record. Records are never mutated after parsing.
type Product struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	FullName         string           `json:"fullName"`
	Category         string           `json:"category"`
	Subcategory      string           `json:"subcategory,omitempty"`
	Brand            string           `json:"brand,omitempty"`
	Price            decimal.Decimal  `json:"price"`
	OldPrice         *decimal.Decimal `json:"oldPrice,omitempty"`
	Points           int              `json:"points"`
	StockCount       int              `json:"stockCount"`
	InStock          bool             `json:"inStock"`
	Image            string           `json:"image,omitempty"`
	Description      string           `json:"description,omitempty"`
	DescriptionImage string           `json:"descriptionImage,omitempty"`
	Labels           string           `json:"labels,omitempty"`
	GroupID          string           `json:"groupId,omitempty"`

	Flavor      string `json:"flavor,omitempty"`
	Color       string `json:"color,omitempty"`
	Country     string `json:"country,omitempty"`
	TasteGroup  string `json:"tasteGroup,omitempty"`
	Display     string `json:"display,omitempty"`
	Material    string `json:"material,omitempty"`
	PowerMode   string `json:"powerMode,omitempty"`
	ControlType string `json:"controlType,omitempty"`
	Resistance  string `json:"resistance,omitempty"`
	Volume      string `json:"volume,omitempty"`
}

// HasSale reports whether the labels mark the product as discounted.
func (p Product) HasSale() bool {
	return p.hasLabel("sale")
}

func (p Product) IsNew() bool {
	return p.hasLabel("new")
}

// IsHit reports whether the product is promoted as a bestseller.
func (p Product) IsHit() bool {
	return p.hasLabel("hit") || p.hasLabel("top")
}

// Available reports whether the product can be added to a cart.
func (p Product) Available() bool {
	return p.InStock && p.StockCount > 0
}

// HasDiscount reports whether an old price is present for strike-through display.
func (p Product) HasDiscount() bool {
	return p.OldPrice != nil
}

// AcceptsAddons reports whether the add-on catalog applies to the product.
func (p Product) AcceptsAddons() bool {
	return p.Category == string(enums.ProductCategoryLiquids)
}

func (p Product) hasLabel(needle string) bool {
	return strings.Contains(strings.ToLower(p.Labels), needle)
}

// Banner is a promotional slide shown on the home page.
type Banner struct {
	ID    string `json:"id"`
	Image string `json:"image"`
	Link  string `json:"link"`
}

// Addon is an optional extra that can be mixed into a liquid.
type Addon struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	DefaultChecked bool            `json:"defaultChecked"`
}

var addonCatalog = []Addon{
	{ID: "glycerin", Name: "Гліцерин", Price: decimal.Zero, DefaultChecked: true},
	{ID: "ice", Name: "Ice booster", Price: decimal.NewFromInt(30)},
	{ID: "sour", Name: "Sour booster", Price: decimal.NewFromInt(30)},
}

// Addons returns a copy of the fixed add-on catalog.
func Addons() []Addon {
	out := make([]Addon, len(addonCatalog))
	copy(out, addonCatalog)
	return out
}

// AddonByID resolves an add-on by its identifier.
func AddonByID(id string) (Addon, bool) {
	id = strings.TrimSpace(id)
	for _, addon := range addonCatalog {
		if addon.ID == id {
			return addon, true
		}
	}
	return Addon{}, false
}
