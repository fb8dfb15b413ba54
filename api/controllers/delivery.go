package controllers

import (
	"net/http"

	"github.com/angelmondragon/smokehouse-backend/api/responses"
	"github.com/angelmondragon/smokehouse-backend/api/validators"
	"github.com/angelmondragon/smokehouse-backend/internal/delivery"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
)

const maxDeliveryQueryLen = 100

// DeliveryCities autocompletes settlement names for the checkout form.
func DeliveryCities(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}
		query := validators.SanitizeString(r.URL.Query().Get("q"), maxDeliveryQueryLen)
		options, err := svc.SearchCities(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, options)
	}
}

// DeliveryWarehouses lists the branches of the selected city.
func DeliveryWarehouses(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}
		cityRef := validators.SanitizeString(r.URL.Query().Get("cityRef"), maxDeliveryQueryLen)
		options, err := svc.Warehouses(r.Context(), cityRef)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, options)
	}
}
