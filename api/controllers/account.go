package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/smokehouse-backend/api/middleware"
	"github.com/angelmondragon/smokehouse-backend/api/responses"
	"github.com/angelmondragon/smokehouse-backend/internal/identity"
	"github.com/angelmondragon/smokehouse-backend/internal/users"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
)

const balanceEvent = "balance"

type accountService interface {
	CurrentUser(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	SubscribeBalance(userID uuid.UUID, cb func(identity.BalanceUpdate)) func()
}

// Me returns the signed-in user including the current points balance.
func Me(svc accountService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.CurrentUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]*users.UserDTO{"user": user})
	}
}

// BalanceStream pushes the user's balance whenever it changes.
func BalanceStream(svc accountService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		balance, err := svc.Balance(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		initial := identity.BalanceUpdate{UserID: userID, Balance: balance}
		streamUpdates(w, r, logg, balanceEvent, initial, func(cb func(identity.BalanceUpdate)) func() {
			return svc.SubscribeBalance(userID, cb)
		})
	}
}

func requireUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
