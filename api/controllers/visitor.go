package controllers

import (
	"net/http"

	"github.com/angelmondragon/smokehouse-backend/api/middleware"
	"github.com/angelmondragon/smokehouse-backend/api/responses"
	"github.com/angelmondragon/smokehouse-backend/internal/visitor"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
)

type ageConfirmation struct {
	VisitorID string `json:"visitorId"`
	Confirmed bool   `json:"confirmed"`
}

// AgeConfirm records that the visitor passed the age gate.
func AgeConfirm(svc visitor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "visitor service unavailable"))
			return
		}
		visitorID := middleware.VisitorIDFromContext(r.Context())
		if err := svc.ConfirmAge(r.Context(), visitorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ageConfirmation{VisitorID: visitorID, Confirmed: true})
	}
}

func AgeStatus(svc visitor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "visitor service unavailable"))
			return
		}
		visitorID := middleware.VisitorIDFromContext(r.Context())
		confirmed, err := svc.AgeConfirmed(r.Context(), visitorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ageConfirmation{VisitorID: visitorID, Confirmed: confirmed})
	}
}
