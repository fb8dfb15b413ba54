package users

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/smokehouse-backend/pkg/db"
	"github.com/angelmondragon/smokehouse-backend/pkg/enums"
	"github.com/angelmondragon/smokehouse-backend/pkg/migrate/migratetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	client := migratetest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Email: " Buyer@Example.com ", Provider: enums.SignInMethodGoogle})
	require.NoError(t, err)
	require.Equal(t, "buyer@example.com", user.Email)
	require.Equal(t, "Buyer", user.Name)
	require.Nil(t, user.PasswordHash)

	found, err := repo.FindByEmail(ctx, "buyer@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)
	require.True(t, found.Balance.IsZero())

	_, err = repo.Create(ctx, CreateUserDTO{Email: "buyer@example.com"})
	require.Error(t, err)
	require.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryBalanceUpdates(t *testing.T) {
	client := migratetest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Email: "points@example.com"})
	require.NoError(t, err)

	balance, err := repo.IncrementBalance(ctx, user.ID, decimal.NewFromInt(120))
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.NewFromInt(120)), "got %s", balance)

	balance, err = repo.IncrementBalance(ctx, user.ID, decimal.RequireFromString("-20.5"))
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("99.5")), "got %s", balance)

	require.NoError(t, repo.SetBalance(ctx, user.ID, decimal.NewFromInt(7)))
	balance, err = repo.Balance(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.NewFromInt(7)))

	_, err = repo.IncrementBalance(ctx, uuid.New(), decimal.NewFromInt(1))
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
