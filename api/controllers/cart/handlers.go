package cart

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/smokehouse-backend/api/middleware"
	"github.com/angelmondragon/smokehouse-backend/api/responses"
	"github.com/angelmondragon/smokehouse-backend/api/validators"
	cartsvc "github.com/angelmondragon/smokehouse-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
)

// CartFetch returns the visitor's cart with its total and potential points.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		view, err := svc.Get(r.Context(), middleware.VisitorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddLine merges a product and its add-ons into the cart.
func CartAddLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartsvc.AddLineInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Add(r.Context(), middleware.VisitorIDFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartIncrease(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return lineAction(svc, logg, cartsvc.Service.Increase)
}

func CartDecrease(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return lineAction(svc, logg, cartsvc.Service.Decrease)
}

func CartRemoveLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return lineAction(svc, logg, cartsvc.Service.Remove)
}

// CartClear empties the cart and returns the empty view.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		if err := svc.Clear(r.Context(), middleware.VisitorIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, &cartsvc.View{Lines: []cartsvc.Line{}, Total: decimal.Zero})
	}
}

type lineMutation func(svc cartsvc.Service, ctx context.Context, visitorID, key string) (*cartsvc.View, error)

func lineAction(svc cartsvc.Service, logg *logger.Logger, action lineMutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		key, err := url.PathUnescape(chi.URLParam(r, "key"))
		if err != nil || key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid line key"))
			return
		}

		view, err := action(svc, r.Context(), middleware.VisitorIDFromContext(r.Context()), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
