package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/smokehouse-backend/api/responses"
	"github.com/angelmondragon/smokehouse-backend/api/validators"
	"github.com/angelmondragon/smokehouse-backend/internal/catalog"
	"github.com/angelmondragon/smokehouse-backend/internal/filters"
	"github.com/angelmondragon/smokehouse-backend/internal/search"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
	"github.com/angelmondragon/smokehouse-backend/pkg/pagination"
)

const maxSearchQueryLen = 100

// CatalogSource is the read side of the catalog loader.
type CatalogSource interface {
	LoadProducts(ctx context.Context) []catalog.Product
	LoadBanners(ctx context.Context) []catalog.Banner
}

type categoryPage struct {
	Slug       string                     `json:"slug"`
	Facets     map[filters.Facet][]string `json:"facets"`
	Filters    filters.State              `json:"filters"`
	Products   []catalog.Product          `json:"products"`
	Pagination pagination.Page            `json:"pagination"`
}

type variantOption struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	Current   bool   `json:"current"`
}

type productDetail struct {
	Product  catalog.Product   `json:"product"`
	Variants []variantOption   `json:"variants"`
	Related  []catalog.Product `json:"related"`
	Addons   []catalog.Addon   `json:"addons"`
}

type searchResult struct {
	Query    string            `json:"query"`
	Products []catalog.Product `json:"products"`
}

// Banners returns the home page slides. A failed fetch yields an empty list.
func Banners(src CatalogSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if src == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, src.LoadBanners(r.Context()))
	}
}

// CategoryProducts lists one page of a category with its facets and the
// applied filter state.
func CategoryProducts(src CatalogSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if src == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		slug := chi.URLParam(r, "slug")
		listed := catalog.ListBySlug(src.LoadProducts(r.Context()), slug)

		base := filters.DefaultState(listed)
		base.OnlySale = catalog.StartsOnSale(slug)
		state, err := filters.FromQuery(r.URL.Query(), base)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, window := filters.Paginate(filters.Apply(listed, slug, state), state.Page)
		responses.WriteSuccess(w, categoryPage{
			Slug:       slug,
			Facets:     filters.Facets(listed, slug),
			Filters:    state,
			Products:   items,
			Pagination: window,
		})
	}
}

// ProductDetail returns a product with its variant siblings, related items and add-ons.
func ProductDetail(src CatalogSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if src == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		all := src.LoadProducts(r.Context())
		product, ok := catalog.FindByID(all, chi.URLParam(r, "id"))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Товар не знайдено"))
			return
		}

		siblings := catalog.Variants(product, all)
		variants := make([]variantOption, 0, len(siblings))
		for _, v := range siblings {
			variants = append(variants, variantOption{
				ID:        v.ID,
				Label:     catalog.VariantLabel(v),
				Available: v.Available(),
				Current:   v.ID == product.ID,
			})
		}

		responses.WriteSuccess(w, productDetail{
			Product:  product,
			Variants: variants,
			Related:  catalog.Related(product, all),
			Addons:   catalog.AddonsFor(product),
		})
	}
}

// Search matches the catalog against q. preview=true trims the result for
// the header dropdown.
func Search(src CatalogSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if src == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		preview, err := validators.ParseQueryBool(r, "preview", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit := 0
		if preview {
			limit = search.PreviewLimit
		}

		query := validators.SanitizeString(r.URL.Query().Get("q"), maxSearchQueryLen)
		responses.WriteSuccess(w, searchResult{
			Query:    query,
			Products: search.Match(src.LoadProducts(r.Context()), query, limit),
		})
	}
}
