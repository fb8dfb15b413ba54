package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	"github.com/angelmondragon/smokehouse-backend/pkg/sheets"
	"github.com/shopspring/decimal"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// ParseProducts converts raw sheet rows into products. Rows missing an id or
// a name are dropped.
func ParseProducts(rows []sheets.Row) []Product {
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		product, ok := parseProduct(row)
		if !ok {
			continue
		}
		products = append(products, product)
	}
	return products
}

// ParseBanners keeps rows that carry an image.
func ParseBanners(rows []sheets.Row) []Banner {
	banners := make([]Banner, 0, len(rows))
	for _, row := range rows {
		image := row.Get("image")
		if image == "" {
			continue
		}
		link := row.Get("link")
		if link == "" {
			link = DefaultBannerLink
		}
		banners = append(banners, Banner{
			ID:    row.Get("id"),
			Image: image,
			Link:  link,
		})
	}
	return banners
}

func parseProduct(row sheets.Row) (Product, bool) {
	id := row.Get("id")
	name := row.Get("name")
	if id == "" || name == "" {
		return Product{}, false
	}

	flavor := row.Get("flavor")
	color := row.Get("color")

	product := Product{
		ID:               id,
		Name:             name,
		FullName:         fullName(name, flavor, color),
		Category:         string(enums.NormalizeProductCategory(row.Get("category"))),
		Subcategory:      row.Get("subcategory"),
		Brand:            row.Get("brand"),
		Price:            parsePrice(row.Get("price")),
		OldPrice:         parseOldPrice(row.Get("price_old", "old_price")),
		Points:           parsePoints(row.Get("points")),
		StockCount:       parseStock(row.Get("quantity")),
		InStock:          parseInStock(row.Get("inStock", "in_stock")),
		Image:            row.Get("image"),
		Description:      row.Get("description"),
		DescriptionImage: row.Get("description_image"),
		Labels:           row.Get("labels", "label"),
		GroupID:          row.Get("group_id", "GroupId", "Group ID"),
		Flavor:           flavor,
		Color:            color,
		Country:          row.Get("country"),
		TasteGroup:       row.Get("taste_group"),
		Display:          row.Get("display"),
		Material:         row.Get("material"),
		PowerMode:        row.Get("power_mode"),
		ControlType:      row.Get("control_type"),
		Resistance:       row.Get("resistance"),
		Volume:           row.Get("volume"),
	}
	return product, true
}

func fullName(name, flavor, color string) string {
	switch {
	case flavor != "":
		return strings.TrimSpace(fmt.Sprintf("%s (%s)", name, flavor))
	case color != "":
		return strings.TrimSpace(fmt.Sprintf("%s (%s)", name, color))
	default:
		return strings.TrimSpace(name)
	}
}

// normalizeAmount strips all whitespace and swaps the first decimal comma for a dot.
func normalizeAmount(raw string) string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	return strings.Replace(compact, ",", ".", 1)
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	match := leadingNumber.FindString(normalizeAmount(raw))
	if match == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

func parsePrice(raw string) decimal.Decimal {
	value, ok := parseAmount(raw)
	if !ok || value.IsNegative() {
		return decimal.Zero
	}
	return value
}

func parseOldPrice(raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	value, ok := parseAmount(raw)
	if !ok || !value.IsPositive() {
		return nil
	}
	return &value
}

func parseLeadingInt(raw string) (int, bool) {
	match := leadingInt.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0, false
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parsePoints(raw string) int {
	value, ok := parseLeadingInt(raw)
	if !ok || value < 0 {
		return 0
	}
	return value
}

func parseStock(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return UnlimitedStock
	}
	value, ok := parseLeadingInt(raw)
	if !ok {
		return UnlimitedStock
	}
	if value < 0 {
		return 0
	}
	return value
}

func parseInStock(raw string) bool {
	return !strings.EqualFold(strings.TrimSpace(raw), "false")
}
