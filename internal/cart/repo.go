package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/smokehouse-backend/pkg/redis"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(visitorID string) string
}

// ErrCorruptCart marks a stored cart that could not be decoded.
var ErrCorruptCart = errors.New("stored cart is corrupt")

// Repository persists a visitor's cart lines as a JSON document in redis.
type Repository struct {
	store kvStore
	ttl   time.Duration
}

// NewRepository returns a redis-backed cart repository. A zero ttl keeps carts forever.
func NewRepository(store kvStore, ttl time.Duration) *Repository {
	return &Repository{store: store, ttl: ttl}
}

// Load returns the stored lines. A missing cart yields no lines and no error.
func (r *Repository) Load(ctx context.Context, visitorID string) ([]Line, error) {
	raw, err := r.store.Get(ctx, r.store.CartKey(visitorID))
	if errors.Is(err, redis.ErrNil) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return []Line{}, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

// Save replaces the stored lines. An empty cart deletes the key.
func (r *Repository) Save(ctx context.Context, visitorID string, lines []Line) error {
	if len(lines) == 0 {
		return r.Delete(ctx, visitorID)
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.store.Set(ctx, r.store.CartKey(visitorID), string(payload), r.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, visitorID string) error {
	if err := r.store.Del(ctx, r.store.CartKey(visitorID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
