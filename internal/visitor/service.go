package visitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/redis"
)

// AgeConfirmationTTL keeps the confirmation for roughly a year.
const AgeConfirmationTTL = 365 * 24 * time.Hour

type flagStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	AgeConfirmationKey(visitorID string) string
}

// Service stores per-visitor preferences that outlive a single page view.
type Service interface {
	ConfirmAge(ctx context.Context, visitorID string) error
	AgeConfirmed(ctx context.Context, visitorID string) (bool, error)
}

type service struct {
	store flagStore
	ttl   time.Duration
}

func NewService(store flagStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	return &service{store: store, ttl: AgeConfirmationTTL}, nil
}

func (s *service) ConfirmAge(ctx context.Context, visitorID string) error {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "visitor id required")
	}
	if err := s.store.Set(ctx, s.store.AgeConfirmationKey(visitorID), "1", s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store age confirmation")
	}
	return nil
}

func (s *service) AgeConfirmed(ctx context.Context, visitorID string) (bool, error) {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return false, nil
	}
	value, err := s.store.Get(ctx, s.store.AgeConfirmationKey(visitorID))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read age confirmation")
	}
	return value == "1", nil
}
