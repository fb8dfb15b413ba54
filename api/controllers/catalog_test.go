package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/smokehouse-backend/internal/catalog"
)

type stubCatalog struct {
	products []catalog.Product
	banners  []catalog.Banner
}

func (s stubCatalog) LoadProducts(context.Context) []catalog.Product { return s.products }
func (s stubCatalog) LoadBanners(context.Context) []catalog.Banner   { return s.banners }

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sampleCatalog() stubCatalog {
	old := price(400)
	return stubCatalog{
		products: []catalog.Product{
			{ID: "liq-1", Name: "Elf Liq", Category: "liquids", Brand: "Elf", Price: price(300), OldPrice: &old, Flavor: "Mango", GroupID: "elf", InStock: true, StockCount: 3, Labels: "sale"},
			{ID: "liq-2", Name: "Elf Liq", Category: "liquids", Brand: "Elf", Price: price(300), Flavor: "Apple", GroupID: "elf", InStock: true, StockCount: 0},
			{ID: "liq-3", Name: "Chaser", Category: "liquids", Brand: "Chaser", Price: price(250), Flavor: "Cherry", GroupID: "chaser", InStock: true, StockCount: 5},
			{ID: "pod-1", Name: "Xros 3", Category: "pods", Brand: "Vaporesso", Price: price(900), InStock: true, StockCount: 2},
		},
		banners: []catalog.Banner{{ID: "b1", Image: "https://cdn/banner.jpg", Link: "/category/sales"}},
	}
}

func newCatalogRouter(src CatalogSource) http.Handler {
	r := chi.NewRouter()
	r.Get("/banners", Banners(src, nil))
	r.Get("/categories/{slug}/products", CategoryProducts(src, nil))
	r.Get("/products/{id}", ProductDetail(src, nil))
	r.Get("/search", Search(src, nil))
	return r
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
}

func TestBannersReturnsSlides(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(sampleCatalog()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/banners", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var banners []catalog.Banner
	decodeData(t, rec, &banners)
	require.Len(t, banners, 1)
	assert.Equal(t, "b1", banners[0].ID)
}

func TestCategoryProductsFiltersAndSorts(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/categories/liquids/products?brand=Elf&sort=low-high", nil)
	newCatalogRouter(sampleCatalog()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Slug       string              `json:"slug"`
		Facets     map[string][]string `json:"facets"`
		Products   []catalog.Product   `json:"products"`
		Pagination struct {
			TotalItems int `json:"totalItems"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	decodeData(t, rec, &page)

	assert.Equal(t, "liquids", page.Slug)
	assert.ElementsMatch(t, []string{"Chaser", "Elf"}, page.Facets["brand"])
	assert.Contains(t, page.Facets, "flavor")
	require.Len(t, page.Products, 2)
	for _, p := range page.Products {
		assert.Equal(t, "Elf", p.Brand)
	}
	assert.Equal(t, 2, page.Pagination.TotalItems)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestCategoryProductsSalesStartsOnSale(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(sampleCatalog()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/sales/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Filters struct {
			OnlySale bool `json:"onlySale"`
		} `json:"filters"`
		Products []catalog.Product `json:"products"`
	}
	decodeData(t, rec, &page)
	assert.True(t, page.Filters.OnlySale)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "liq-1", page.Products[0].ID)
}

func TestCategoryProductsRejectsBadFilters(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(sampleCatalog()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/liquids/products?min=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductDetailIncludesVariantsAndAddons(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(sampleCatalog()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/liq-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		Product  catalog.Product   `json:"product"`
		Variants []variantOption   `json:"variants"`
		Related  []catalog.Product `json:"related"`
		Addons   []catalog.Addon   `json:"addons"`
	}
	decodeData(t, rec, &detail)

	assert.Equal(t, "liq-1", detail.Product.ID)
	require.Len(t, detail.Variants, 2)
	labels := map[string]variantOption{}
	for _, v := range detail.Variants {
		labels[v.Label] = v
	}
	assert.True(t, labels["Mango"].Current)
	assert.False(t, labels["Apple"].Available)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, "liq-3", detail.Related[0].ID)
	assert.Len(t, detail.Addons, len(catalog.Addons()))
}

func TestProductDetailNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(sampleCatalog()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchUsesSynonyms(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(sampleCatalog()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=%D1%87%D0%B5%D0%B9%D0%B7%D0%B5%D1%80&preview=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Query    string            `json:"query"`
		Products []catalog.Product `json:"products"`
	}
	decodeData(t, rec, &result)
	assert.Equal(t, "чейзер", result.Query)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "liq-3", result.Products[0].ID)
}

func TestSearchRejectsBadPreviewFlag(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogRouter(sampleCatalog()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=elf&preview=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
