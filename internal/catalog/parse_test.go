package catalog

import (
	"testing"

	"github.com/angelmondragon/smokehouse-backend/pkg/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductsDropsRowsWithoutIDOrName(t *testing.T) {
	rows := []sheets.Row{
		{"id": "1", "name": "Chaser"},
		{"id": "", "name": "Orphan"},
		{"id": "3", "name": "  "},
	}

	products := ParseProducts(rows)
	require.Len(t, products, 1)
	assert.Equal(t, "1", products[0].ID)
}

func TestParseProductsPriceRules(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{raw: "1 250,50", want: "1250.5"},
		{raw: "320", want: "320"},
		{raw: "abc", want: "0"},
		{raw: "", want: "0"},
		{raw: "-15", want: "0"},
		{raw: "99грн", want: "99"},
	}
	for _, tc := range cases {
		products := ParseProducts([]sheets.Row{{"id": "1", "name": "x", "price": tc.raw}})
		require.Len(t, products, 1)
		assert.Equal(t, tc.want, products[0].Price.String(), "price %q", tc.raw)
	}
}

func TestParseProductsOldPrice(t *testing.T) {
	withOld := ParseProducts([]sheets.Row{{"id": "1", "name": "x", "price_old": "450,00"}})
	require.NotNil(t, withOld[0].OldPrice)
	assert.Equal(t, "450", withOld[0].OldPrice.String())

	for _, raw := range []string{"", "n/a", "0"} {
		products := ParseProducts([]sheets.Row{{"id": "1", "name": "x", "price_old": raw}})
		assert.Nil(t, products[0].OldPrice, "old price %q", raw)
	}
}

func TestParseProductsQuantityRules(t *testing.T) {
	cases := map[string]int{
		"":    UnlimitedStock,
		"-":   UnlimitedStock,
		"7":   7,
		"0":   0,
		"-3":  0,
		"lot": UnlimitedStock,
	}
	for raw, want := range cases {
		products := ParseProducts([]sheets.Row{{"id": "1", "name": "x", "quantity": raw}})
		assert.Equal(t, want, products[0].StockCount, "quantity %q", raw)
	}
}

func TestParseProductsAttributes(t *testing.T) {
	products := ParseProducts([]sheets.Row{{
		"id":          " 42 ",
		"name":        "Elf Liq",
		"flavor":      "Mango",
		"color":       "Red",
		"category":    "  Liquids ",
		"points":      "12.7",
		"inStock":     "FALSE",
		"Group ID":    "elf-liq",
		"labels":      "Sale, HIT",
		"taste_group": "Fruit",
	}})
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "42", p.ID)
	assert.Equal(t, "Elf Liq (Mango)", p.FullName)
	assert.Equal(t, "liquids", p.Category)
	assert.Equal(t, 12, p.Points)
	assert.False(t, p.InStock)
	assert.Equal(t, "elf-liq", p.GroupID)
	assert.Equal(t, "Fruit", p.TasteGroup)
	assert.True(t, p.HasSale())
	assert.True(t, p.IsHit())
	assert.False(t, p.IsNew())
	assert.False(t, p.Available())
}

func TestParseProductsFullNameFallsBackToColor(t *testing.T) {
	products := ParseProducts([]sheets.Row{
		{"id": "1", "name": "Xros 3", "color": "Black"},
		{"id": "2", "name": "Coil"},
	})
	assert.Equal(t, "Xros 3 (Black)", products[0].FullName)
	assert.Equal(t, "Coil", products[1].FullName)
	assert.True(t, products[1].InStock)
	assert.Equal(t, 0, products[1].Points)
}

func TestParseBanners(t *testing.T) {
	banners := ParseBanners([]sheets.Row{
		{"id": "1", "image": "https://cdn/1.png", "link": "/category/new"},
		{"id": "2", "image": "https://cdn/2.png"},
		{"id": "3", "image": ""},
	})
	require.Len(t, banners, 2)
	assert.Equal(t, "/category/new", banners[0].Link)
	assert.Equal(t, DefaultBannerLink, banners[1].Link)
}
