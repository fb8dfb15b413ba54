package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/smokehouse-backend/api/middleware"
	"github.com/angelmondragon/smokehouse-backend/internal/identity"
	"github.com/angelmondragon/smokehouse-backend/internal/users"
)

type stubAccount struct {
	mu           sync.Mutex
	balance      decimal.Decimal
	subscriber   func(identity.BalanceUpdate)
	unsubscribed bool
}

func (s *stubAccount) CurrentUser(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID, Email: "shopper@example.com", Balance: s.balance}, nil
}

func (s *stubAccount) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return s.balance, nil
}

func (s *stubAccount) SubscribeBalance(userID uuid.UUID, cb func(identity.BalanceUpdate)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriber = cb
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.unsubscribed = true
	}
}

func (s *stubAccount) publish(update identity.BalanceUpdate) {
	s.mu.Lock()
	cb := s.subscriber
	s.mu.Unlock()
	cb(update)
}

func TestMeRequiresUser(t *testing.T) {
	rec := httptest.NewRecorder()
	Me(&stubAccount{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsUserWithBalance(t *testing.T) {
	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()
	Me(&stubAccount{balance: decimal.NewFromInt(42)}, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		User users.UserDTO `json:"user"`
	}
	decodeData(t, rec, &payload)
	assert.Equal(t, userID, payload.User.ID)
	assert.Equal(t, "42", payload.User.Balance.String())
}

func TestBalanceStreamPushesUpdates(t *testing.T) {
	userID := uuid.New()
	svc := &stubAccount{balance: decimal.NewFromInt(10)}
	req := httptest.NewRequest(http.MethodGet, "/me/balance/stream", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	body := serveStream(t, BalanceStream(svc, nil), req, 2, func() {
		svc.publish(identity.BalanceUpdate{UserID: userID, Balance: decimal.NewFromInt(60)})
	})

	assert.Equal(t, 2, eventCount(body, balanceEvent))
	first := strings.Index(body, `"balance":"10"`)
	second := strings.Index(body, `"balance":"60"`)
	require.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.True(t, svc.unsubscribed)
}
