package cart

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/smokehouse-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
	"github.com/angelmondragon/smokehouse-backend/pkg/redis/redistest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProducts []catalog.Product

func (s stubProducts) LoadProducts(context.Context) []catalog.Product {
	return s
}

func newTestService(t *testing.T) (Service, func(key string) (string, error)) {
	t.Helper()
	mr, client := redistest.Open(t)
	products := stubProducts{
		liquid(3),
		{ID: "pod-1", Name: "Xros", Category: "pods", Price: decimal.NewFromInt(900), StockCount: 1, InStock: true},
		{ID: "pod-2", Name: "Xros Nano", Category: "pods", Price: decimal.NewFromInt(700), StockCount: 999, InStock: false},
	}
	svc, err := NewService(NewRepository(client, time.Hour), products, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	require.NoError(t, err)
	return svc, mr.Get
}

func TestServiceAddPersistsCart(t *testing.T) {
	svc, get := newTestService(t)
	ctx := context.Background()

	view, err := svc.Add(ctx, "visitor-1", AddLineInput{ProductID: "liq-1", Quantity: 2, AddonIDs: []string{"ice", "glycerin"}})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "liq-1|Ice booster|Гліцерин", view.Lines[0].Key)
	assert.Equal(t, "560", view.Total.String())

	raw, err := get("sh:cart:visitor-1")
	require.NoError(t, err)
	assert.Contains(t, raw, `"productId":"liq-1"`)

	again, err := svc.Get(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Count)

	other, err := svc.Get(ctx, "visitor-2")
	require.NoError(t, err)
	assert.Empty(t, other.Lines)
}

func TestServiceAddErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "v", AddLineInput{ProductID: "nope"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Add(ctx, "v", AddLineInput{ProductID: "liq-1", AddonIDs: []string{"mint"}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Add(ctx, "v", AddLineInput{ProductID: "pod-1", AddonIDs: []string{"ice"}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Add(ctx, "", AddLineInput{ProductID: "liq-1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Add(ctx, "v", AddLineInput{ProductID: "liq-1", Quantity: 4})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "На складі всього 3 шт.", typed.Message())
}

func TestServiceAddRejectsOutOfStock(t *testing.T) {
	svc, get := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "visitor-1", AddLineInput{ProductID: "pod-2"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "Товар відсутній", typed.Message())

	_, err = get("sh:cart:visitor-1")
	assert.Error(t, err)
}

func TestServiceLineOperations(t *testing.T) {
	svc, get := newTestService(t)
	ctx := context.Background()

	view, err := svc.Add(ctx, "v", AddLineInput{ProductID: "pod-1"})
	require.NoError(t, err)
	key := view.Lines[0].Key

	_, err = svc.Increase(ctx, "v", key)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	view, err = svc.Decrease(ctx, "v", key)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Lines[0].Quantity)

	view, err = svc.Remove(ctx, "v", key)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	_, err = get("sh:cart:v")
	assert.Error(t, err, "empty cart deletes the key")

	_, err = svc.Add(ctx, "v", AddLineInput{ProductID: "liq-1"})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "v"))
	view, err = svc.Get(ctx, "v")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestServiceCorruptCartLoadsEmpty(t *testing.T) {
	mr, client := redistest.Open(t)
	require.NoError(t, mr.Set("sh:cart:v", "[{broken"))

	svc, err := NewService(NewRepository(client, time.Hour), stubProducts{liquid(5)}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	require.NoError(t, err)

	view, err := svc.Get(context.Background(), "v")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	view, err = svc.Add(context.Background(), "v", AddLineInput{ProductID: "liq-1"})
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
}
