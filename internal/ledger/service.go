package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/smokehouse-backend/pkg/db/models"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines operations that record points events.
type Service interface {
	WithTx(tx *gorm.DB) Service
	RecordEvent(ctx context.Context, input RecordPointsEventInput) (*models.PointsEvent, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]models.PointsEvent, error)
	HasEvent(ctx context.Context, orderRef string, eventType enums.PointsEventType) (bool, error)
}

type service struct {
	repo Repository
}

// RecordPointsEventInput captures the immutable data a points event requires.
type RecordPointsEventInput struct {
	UserID   uuid.UUID             `json:"userId"`
	OrderRef string                `json:"orderRef"`
	Type     enums.PointsEventType `json:"type"`
	Amount   decimal.Decimal       `json:"amount"`
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx)}
}

func (s *service) RecordEvent(ctx context.Context, input RecordPointsEventInput) (*models.PointsEvent, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid points event type %q", input.Type)
	}
	if input.Amount.IsZero() {
		return nil, fmt.Errorf("amount must be non-zero")
	}
	switch input.Type {
	case enums.PointsEventRedeem:
		if input.Amount.IsPositive() {
			return nil, fmt.Errorf("redeem amount must be negative")
		}
	case enums.PointsEventEarn:
		if input.Amount.IsNegative() {
			return nil, fmt.Errorf("earn amount must be positive")
		}
	}

	event := &models.PointsEvent{
		UserID:   input.UserID,
		OrderRef: strings.TrimSpace(input.OrderRef),
		Type:     input.Type,
		Amount:   input.Amount,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.PointsEvent, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *service) HasEvent(ctx context.Context, orderRef string, eventType enums.PointsEventType) (bool, error) {
	if strings.TrimSpace(orderRef) == "" {
		return false, fmt.Errorf("order ref is required")
	}
	if !eventType.IsValid() {
		return false, fmt.Errorf("invalid points event type %q", eventType)
	}

	events, err := s.repo.ListByOrderRef(ctx, orderRef)
	if err != nil {
		return false, err
	}
	for _, event := range events {
		if event.Type == eventType {
			return true, nil
		}
	}
	return false, nil
}
