package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/smokehouse-backend/internal/cart"
	"github.com/angelmondragon/smokehouse-backend/internal/identity"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
	"github.com/angelmondragon/smokehouse-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const orderRefPrefix = "SH"

type cartReader interface {
	Get(ctx context.Context, visitorID string) (*cart.View, error)
	Clear(ctx context.Context, visitorID string) error
}

type balanceService interface {
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	AdjustBalance(ctx context.Context, userID uuid.UUID, orderRef string, adjustments ...identity.Adjustment) (decimal.Decimal, error)
}

type orderNotifier interface {
	Notify(ctx context.Context, order Order) (int, error)
}

// Service turns a visitor's cart and buyer form into a placed order.
type Service interface {
	Submit(ctx context.Context, visitorID string, userID *uuid.UUID, input OrderInput) (*Receipt, error)
}

type service struct {
	carts    cartReader
	balances balanceService
	notifier orderNotifier
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams wires the checkout orchestrator.
type ServiceParams struct {
	Carts    cartReader
	Balances balanceService
	Notifier orderNotifier
	Metrics  *metrics.CheckoutMetrics
	Logger   *logger.Logger
	Now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Balances == nil {
		return nil, fmt.Errorf("balance service required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		carts:    params.Carts,
		balances: params.Balances,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func (s *service) Submit(ctx context.Context, visitorID string, userID *uuid.UUID, input OrderInput) (*Receipt, error) {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "visitor id required")
	}
	input = input.normalized()
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	view, err := s.carts.Get(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if view == nil || len(view.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Кошик порожній").
			WithDetails(map[string]any{"cart": "empty"})
	}

	ctx = s.logg.WithField(ctx, "visitor_id", visitorID)
	if userID != nil {
		ctx = s.logg.WithField(ctx, "user_id", userID.String())
	}

	totals, err := s.computeTotals(ctx, view, userID, input.UsePoints)
	if err != nil {
		return nil, err
	}

	placedAt := s.now().UTC()
	order := Order{
		Ref:        newOrderRef(placedAt),
		PlacedAt:   placedAt,
		VisitorID:  visitorID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		MiddleName: input.MiddleName,
		Phone:      input.Phone,
		Email:      input.Email,
		Telegram:   input.Telegram,
		CityName:   input.CityName,
		Department: input.Department,
		Payment:    enums.PaymentMethod(input.Payment),
		Comment:    input.Comment,
		Lines:      view.Lines,
		Totals:     totals,
	}
	if userID != nil {
		order.UserID = userID.String()
	}
	ctx = s.logg.WithField(ctx, "order_ref", order.Ref)

	receipt := &Receipt{OrderRef: order.Ref, Totals: totals}

	delivered, notifyErr := s.notifier.Notify(ctx, order)
	receipt.Notified = notifyErr == nil && delivered > 0

	if userID != nil {
		balance, adjErr := s.balances.AdjustBalance(ctx, *userID, order.Ref, adjustmentsFor(totals)...)
		if adjErr != nil {
			s.metrics.IncBalanceFailure()
			s.logg.Error(ctx, "checkout.balance_adjust_failed", adjErr)
		} else {
			receipt.BalanceAdjusted = true
			receipt.Balance = &balance
		}
	}

	if err := s.carts.Clear(ctx, visitorID); err != nil {
		s.logg.Error(ctx, "checkout.cart_clear_failed", err)
	}

	s.metrics.IncSubmitted(order.Payment.String())
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"final":    totals.Final.String(),
		"notified": receipt.Notified,
		"lines":    len(order.Lines),
	}), "checkout.submitted")
	return receipt, nil
}

func (s *service) computeTotals(ctx context.Context, view *cart.View, userID *uuid.UUID, usePoints bool) (Totals, error) {
	totals := Totals{
		Subtotal:        view.Total,
		Discount:        decimal.Zero,
		PotentialPoints: view.PotentialPoints,
	}
	if usePoints && userID != nil {
		balance, err := s.balances.Balance(ctx, *userID)
		if err != nil {
			return Totals{}, err
		}
		if balance.IsPositive() {
			totals.Discount = decimal.Min(balance, totals.Subtotal)
			totals.UsePoints = true
		}
	}
	if !totals.UsePoints {
		totals.PointsToEarn = totals.PotentialPoints
	}
	totals.Final = totals.Subtotal.Sub(totals.Discount)
	return totals, nil
}

func adjustmentsFor(totals Totals) []identity.Adjustment {
	adjustments := make([]identity.Adjustment, 0, 2)
	if totals.Discount.IsPositive() {
		adjustments = append(adjustments, identity.Adjustment{
			Type:   enums.PointsEventRedeem,
			Amount: totals.Discount.Neg(),
		})
	}
	if totals.PointsToEarn > 0 {
		adjustments = append(adjustments, identity.Adjustment{
			Type:   enums.PointsEventEarn,
			Amount: decimal.NewFromInt(int64(totals.PointsToEarn)),
		})
	}
	return adjustments
}

// newOrderRef returns a short human readable reference like SH-20260412-3FA9C1.
func newOrderRef(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", orderRefPrefix, at.Format("20060102"), suffix)
}
