package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/smokehouse-backend/api/middleware"
	"github.com/angelmondragon/smokehouse-backend/api/responses"
	"github.com/angelmondragon/smokehouse-backend/api/validators"
	"github.com/angelmondragon/smokehouse-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
)

// Checkout submits the visitor's cart as an order. Signed-in shoppers may
// redeem their points balance; guests check out anonymously.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkout.OrderInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var userID *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id"))
				return
			}
			userID = &parsed
		}

		receipt, err := svc.Submit(r.Context(), middleware.VisitorIDFromContext(r.Context()), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}
