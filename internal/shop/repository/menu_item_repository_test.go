package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewline/internal/domain"
	"brewline/internal/testutil"
)

func seedMenuItem(t *testing.T, repo *MySQLMenuItemRepository, shopID uuid.UUID, name, category string, available bool, sortOrder int) uuid.UUID {
	t.Helper()
	item := domain.MenuItem{
		ID:                     uuid.New(),
		ShopID:                 shopID,
		Name:                   name,
		PriceCents:             250,
		Category:               category,
		IsAvailable:            available,
		PreparationTimeMinutes: 3,
		SortOrder:              sortOrder,
	}
	require.NoError(t, repo.Insert(context.Background(), item))
	return item.ID
}

func TestMenuItemRepository_FindByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLMenuItemRepository(db)
	ctx := context.Background()

	ownerID := seedOwner(t, db)
	shopRepo := NewMySQLShopRepository(db)
	shop := testShop(ownerID, "Corner Coffee")
	require.NoError(t, shopRepo.Insert(ctx, shop))

	espressoID := seedMenuItem(t, repo, shop.ID, "Espresso", "coffee", true, 1)
	latteID := seedMenuItem(t, repo, shop.ID, "Latte", "coffee", true, 2)
	seedMenuItem(t, repo, shop.ID, "Croissant", "pastry", true, 3)

	items, err := repo.FindByIDs(ctx, []uuid.UUID{espressoID, latteID})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMenuItemRepository_ListByShop_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLMenuItemRepository(db)
	ctx := context.Background()

	ownerID := seedOwner(t, db)
	shopRepo := NewMySQLShopRepository(db)
	shop := testShop(ownerID, "Corner Coffee")
	require.NoError(t, shopRepo.Insert(ctx, shop))

	seedMenuItem(t, repo, shop.ID, "Espresso", "coffee", true, 1)
	seedMenuItem(t, repo, shop.ID, "Latte", "coffee", false, 2)
	seedMenuItem(t, repo, shop.ID, "Croissant", "pastry", true, 3)

	all, err := repo.ListByShop(ctx, shop.ID, MenuFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Espresso", all[0].Name)

	coffee := "coffee"
	byCategory, err := repo.ListByShop(ctx, shop.ID, MenuFilter{Category: &coffee})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	available, err := repo.ListByShop(ctx, shop.ID, MenuFilter{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, available, 2)
	for _, item := range available {
		assert.True(t, item.IsAvailable)
	}
}

func TestMenuItemRepository_ListByShop_EmptyShop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLMenuItemRepository(db)

	items, err := repo.ListByShop(context.Background(), uuid.New(), MenuFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}
