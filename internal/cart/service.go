package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/smokehouse-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
)

type productSource interface {
	LoadProducts(ctx context.Context) []catalog.Product
}

type cartRepository interface {
	Load(ctx context.Context, visitorID string) ([]Line, error)
	Save(ctx context.Context, visitorID string, lines []Line) error
	Delete(ctx context.Context, visitorID string) error
}

// Service persists each visitor's cart between requests.
type Service interface {
	Get(ctx context.Context, visitorID string) (*View, error)
	Add(ctx context.Context, visitorID string, input AddLineInput) (*View, error)
	Increase(ctx context.Context, visitorID, key string) (*View, error)
	Decrease(ctx context.Context, visitorID, key string) (*View, error)
	Remove(ctx context.Context, visitorID, key string) (*View, error)
	Clear(ctx context.Context, visitorID string) error
}

type service struct {
	repo     cartRepository
	products productSource
	logg     *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo cartRepository, products productSource, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, products: products, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, visitorID string) (*View, error) {
	store, err := s.load(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	return viewOf(store), nil
}

func (s *service) Add(ctx context.Context, visitorID string, input AddLineInput) (*View, error) {
	qty := input.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]string{"quantity": "min"})
	}

	product, ok := catalog.FindByID(s.products.LoadProducts(ctx), input.ProductID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !product.Available() {
		return nil, mapStoreError(ErrUnavailable)
	}
	addons, err := resolveAddons(product, input.AddonIDs)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, visitorID, func(store *Store) (bool, error) {
		if err := store.Add(product, qty, addons); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *service) Increase(ctx context.Context, visitorID, key string) (*View, error) {
	return s.mutate(ctx, visitorID, func(store *Store) (bool, error) {
		return store.Increase(key)
	})
}

func (s *service) Decrease(ctx context.Context, visitorID, key string) (*View, error) {
	return s.mutate(ctx, visitorID, func(store *Store) (bool, error) {
		return store.Decrease(key), nil
	})
}

func (s *service) Remove(ctx context.Context, visitorID, key string) (*View, error) {
	return s.mutate(ctx, visitorID, func(store *Store) (bool, error) {
		return store.Remove(key), nil
	})
}

func (s *service) Clear(ctx context.Context, visitorID string) error {
	if err := requireVisitor(visitorID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, visitorID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) mutate(ctx context.Context, visitorID string, fn func(*Store) (bool, error)) (*View, error) {
	store, err := s.load(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	changed, err := fn(store)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if changed {
		if err := s.repo.Save(ctx, visitorID, store.Snapshot()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
		}
	}
	return viewOf(store), nil
}

func (s *service) load(ctx context.Context, visitorID string) (*Store, error) {
	if err := requireVisitor(visitorID); err != nil {
		return nil, err
	}
	lines, err := s.repo.Load(ctx, visitorID)
	if errors.Is(err, ErrCorruptCart) {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"visitor_id": visitorID, "error": err.Error()}), "cart.corrupt_state_reset")
		return NewStore(nil), nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return NewStore(lines), nil
}

func requireVisitor(visitorID string) error {
	if strings.TrimSpace(visitorID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "visitor id required")
	}
	return nil
}

func resolveAddons(product catalog.Product, ids []string) ([]catalog.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if !product.AcceptsAddons() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "add-ons are not available for this product").
			WithDetails(map[string]string{"addons": "unsupported"})
	}
	seen := make(map[string]struct{}, len(ids))
	addons := make([]catalog.Addon, 0, len(ids))
	for _, id := range ids {
		addon, ok := catalog.AddonByID(id)
		if !ok {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown add-on %q", id).
				WithDetails(map[string]string{"addons": "unknown"})
		}
		if _, dup := seen[addon.ID]; dup {
			continue
		}
		seen[addon.ID] = struct{}{}
		addons = append(addons, addon)
	}
	return addons, nil
}

func mapStoreError(err error) error {
	var capacity *CapacityError
	switch {
	case errors.As(err, &capacity):
		return pkgerrors.Newf(pkgerrors.CodeConflict, "На складі всього %d шт.", capacity.Limit).
			WithDetails(map[string]int{"limit": capacity.Limit})
	case errors.Is(err, ErrUnavailable):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Товар відсутній")
	case errors.Is(err, ErrInvalidQuantity):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "quantity must be at least 1")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart")
	}
}
