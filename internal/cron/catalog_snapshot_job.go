package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/smokehouse-backend/internal/catalog"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
)

const CatalogSnapshotJobName = "catalog-snapshot"

type catalogRefresher interface {
	Refresh(ctx context.Context) (catalog.RefreshResult, error)
}

type CatalogSnapshotJobParams struct {
	Logger *logger.Logger
	Loader catalogRefresher
}

// NewCatalogSnapshotJob refreshes the cached product and banner sheets so API
// replicas serve reads without hitting the spreadsheet on every request.
func NewCatalogSnapshotJob(params CatalogSnapshotJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Loader == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	return &catalogSnapshotJob{logg: params.Logger, loader: params.Loader}, nil
}

type catalogSnapshotJob struct {
	logg   *logger.Logger
	loader catalogRefresher
}

func (j *catalogSnapshotJob) Name() string { return CatalogSnapshotJobName }

func (j *catalogSnapshotJob) Run(ctx context.Context) error {
	result, err := j.loader.Refresh(ctx)
	fields := map[string]any{
		"products": result.Products,
		"banners":  result.Banners,
	}
	if err != nil {
		j.logg.Warn(j.logg.WithFields(ctx, fields), "catalog snapshot partially refreshed")
		return fmt.Errorf("catalog snapshot: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, fields), "catalog snapshot refreshed")
	return nil
}
