package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewline/internal/domain"
	"brewline/internal/errors"
	"brewline/internal/testutil"
)

// Unit Tests

func TestNewMySQLShopRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLShopRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func seedOwner(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`
		INSERT INTO users (id, mobile_number, password_hash, name, role)
		VALUES (?, ?, 'x', 'Test Owner', 'SHOP_OWNER')`,
		id, "+1555"+id.String()[:8])
	require.NoError(t, err)
	return id
}

func testShop(ownerID uuid.UUID, name string) domain.Shop {
	return domain.Shop{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		Latitude:  40.4168,
		Longitude: -3.7038,
		Address:   "1 Plaza Mayor",
		ContactDetails: domain.ContactDetails{
			Phone: "+34911234567",
			Email: "shop@example.com",
		},
		QueueConfiguration: domain.QueueConfiguration{
			MaxQueueSize:              20,
			AverageServiceTimeMinutes: 5,
			AllowOnlineOrders:         true,
			AllowWalkInOrders:         true,
		},
		IsActive: true,
	}
}

func TestShopRepository_InsertAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLShopRepository(db)
	ctx := context.Background()

	ownerID := seedOwner(t, db)
	shop := testShop(ownerID, "Corner Coffee")
	require.NoError(t, repo.Insert(ctx, shop))

	found, err := repo.FindByID(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, shop.ID, found.ID)
	assert.Equal(t, "Corner Coffee", found.Name)
	assert.Equal(t, ownerID, found.OwnerID)
	assert.Equal(t, shop.ContactDetails, found.ContactDetails)
	assert.Equal(t, shop.QueueConfiguration, found.QueueConfiguration)
	assert.True(t, found.IsActive)
}

func TestShopRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLShopRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestShopRepository_ListActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLShopRepository(db)
	ctx := context.Background()

	ownerID := seedOwner(t, db)

	beans := testShop(ownerID, "Beans & Co")
	corner := testShop(ownerID, "Corner Coffee")
	closed := testShop(ownerID, "Shuttered")
	closed.IsActive = false

	require.NoError(t, repo.Insert(ctx, corner))
	require.NoError(t, repo.Insert(ctx, beans))
	require.NoError(t, repo.Insert(ctx, closed))

	shops, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, "Beans & Co", shops[0].Name)
	assert.Equal(t, "Corner Coffee", shops[1].Name)
}
