package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/smokehouse-backend/pkg/config"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
	"github.com/angelmondragon/smokehouse-backend/pkg/redis"
	"github.com/angelmondragon/smokehouse-backend/pkg/sheets"
	"go.uber.org/multierr"
)

const (
	snapshotKindProducts = "products"
	snapshotKindBanners  = "banners"
)

type rowFetcher interface {
	Fetch(ctx context.Context, url string) ([]sheets.Row, error)
}

type snapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogSnapshotKey(kind string) string
}

// Loader reads the catalog from the spreadsheet export, preferring the
// snapshot written by the cron worker when one is available.
type Loader struct {
	sheets rowFetcher
	store  snapshotStore
	cfg    config.CatalogConfig
	logg   *logger.Logger
	now    func() time.Time
}

// LoaderParams bundles the loader dependencies. Store is optional.
type LoaderParams struct {
	Sheets rowFetcher
	Store  snapshotStore
	Config config.CatalogConfig
	Logger *logger.Logger
}

// NewLoader validates the dependencies and returns a catalog loader.
func NewLoader(params LoaderParams) (*Loader, error) {
	if params.Sheets == nil {
		return nil, fmt.Errorf("sheets client is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Loader{
		sheets: params.Sheets,
		store:  params.Store,
		cfg:    params.Config,
		logg:   params.Logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

type snapshot[T any] struct {
	FetchedAt time.Time `json:"fetchedAt"`
	Items     []T       `json:"items"`
}

// LoadProducts returns the current catalog. Failures are logged and yield an
// empty list.
func (l *Loader) LoadProducts(ctx context.Context) []Product {
	if cached, ok := readSnapshot[Product](ctx, l, snapshotKindProducts); ok {
		return cached
	}
	products, err := l.fetchProducts(ctx)
	if err != nil {
		l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "catalog.products_fetch_failed")
		return []Product{}
	}
	return products
}

// LoadBanners returns the home page banners, or an empty list on failure.
func (l *Loader) LoadBanners(ctx context.Context) []Banner {
	if cached, ok := readSnapshot[Banner](ctx, l, snapshotKindBanners); ok {
		return cached
	}
	banners, err := l.fetchBanners(ctx)
	if err != nil {
		l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "catalog.banners_fetch_failed")
		return []Banner{}
	}
	return banners
}

// RefreshResult summarizes one snapshot refresh.
type RefreshResult struct {
	Products int
	Banners  int
}

// Refresh fetches both sheets live and replaces the stored snapshots. A sheet
// that fails to load keeps its previous snapshot.
func (l *Loader) Refresh(ctx context.Context) (RefreshResult, error) {
	if l.store == nil {
		return RefreshResult{}, fmt.Errorf("snapshot store is not configured")
	}

	var result RefreshResult
	var errs error

	products, err := l.fetchProducts(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("products: %w", err))
	} else if err := writeSnapshot(ctx, l, snapshotKindProducts, products); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		result.Products = len(products)
	}

	if l.cfg.BannersURL != "" {
		banners, err := l.fetchBanners(ctx)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("banners: %w", err))
		} else if err := writeSnapshot(ctx, l, snapshotKindBanners, banners); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			result.Banners = len(banners)
		}
	}

	return result, errs
}

func (l *Loader) fetchProducts(ctx context.Context) ([]Product, error) {
	rows, err := l.sheets.Fetch(ctx, l.cfg.ProductsURL)
	if err != nil {
		return nil, err
	}
	return ParseProducts(rows), nil
}

func (l *Loader) fetchBanners(ctx context.Context) ([]Banner, error) {
	rows, err := l.sheets.Fetch(ctx, l.cfg.BannersURL)
	if err != nil {
		return nil, err
	}
	return ParseBanners(rows), nil
}

func readSnapshot[T any](ctx context.Context, l *Loader, kind string) ([]T, bool) {
	if l.store == nil {
		return nil, false
	}
	raw, err := l.store.Get(ctx, l.store.CatalogSnapshotKey(kind))
	if err != nil {
		if !errors.Is(err, redis.ErrNil) {
			l.logg.Warn(l.logg.WithFields(ctx, map[string]any{"kind": kind, "error": err.Error()}), "catalog.snapshot_read_failed")
		}
		return nil, false
	}
	var snap snapshot[T]
	if err := json.Unmarshal([]byte(raw), &snap); err != nil || snap.Items == nil {
		l.logg.Warn(l.logg.WithField(ctx, "kind", kind), "catalog.snapshot_corrupt")
		return nil, false
	}
	return snap.Items, true
}

func writeSnapshot[T any](ctx context.Context, l *Loader, kind string, items []T) error {
	payload, err := json.Marshal(snapshot[T]{FetchedAt: l.now(), Items: items})
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}
	if err := l.store.Set(ctx, l.store.CatalogSnapshotKey(kind), string(payload), l.cfg.SnapshotTTL); err != nil {
		return fmt.Errorf("store %s snapshot: %w", kind, err)
	}
	return nil
}
