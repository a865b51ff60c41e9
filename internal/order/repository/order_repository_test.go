package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewline/internal/domain"
	"brewline/internal/errors"
	"brewline/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func seedOrderCustomer(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`
		INSERT INTO users (id, mobile_number, password_hash, name, role)
		VALUES (?, ?, 'x', 'Test Customer', 'CUSTOMER')`,
		id, "+1555"+id.String()[:8])
	require.NoError(t, err)
	return id
}

func seedOrderShop(t *testing.T, db *sql.DB, ownerID uuid.UUID) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`
		INSERT INTO shops (id, name, owner_id, latitude, longitude, address)
		VALUES (?, 'Test Shop', ?, 40.0, -3.7, '1 Test St')`,
		id, ownerID)
	require.NoError(t, err)
	return id
}

func seedMenuItemRow(t *testing.T, db *sql.DB, shopID uuid.UUID) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`
		INSERT INTO menu_items (id, shop_id, name, price_cents, category)
		VALUES (?, ?, 'Espresso', 250, 'coffee')`,
		id, shopID)
	require.NoError(t, err)
	return id
}

func insertOrder(t *testing.T, db *sql.DB, repo *MySQLOrderRepository, order domain.Order) {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), tx, order))
	require.NoError(t, tx.Commit())
}

func testOrder(customerID, shopID uuid.UUID, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		ShopID:        shopID,
		Status:        domain.OrderStatusPending,
		SubtotalCents: 850,
		TaxCents:      68,
		TotalCents:    918,
		CreatedAt:     createdAt,
	}
}

func TestOrderRepository_InsertAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	customerID := seedOrderCustomer(t, db)
	shopID := seedOrderShop(t, db, customerID)

	createdAt := time.Now().UTC().Truncate(time.Second)
	order := testOrder(customerID, shopID, createdAt)
	instructions := "no sugar"
	order.SpecialInstructions = &instructions
	ready := createdAt.Add(11 * time.Minute)
	order.EstimatedReadyTime = &ready
	insertOrder(t, db, repo, order)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
	assert.Equal(t, int64(850), found.SubtotalCents)
	assert.Equal(t, int64(68), found.TaxCents)
	assert.Equal(t, int64(918), found.TotalCents)
	require.NotNil(t, found.SpecialInstructions)
	assert.Equal(t, "no sugar", *found.SpecialInstructions)
	require.NotNil(t, found.EstimatedReadyTime)
	assert.Equal(t, ready, found.EstimatedReadyTime.UTC())
	assert.Nil(t, found.CompletedAt)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_FindByCustomer_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	customerID := seedOrderCustomer(t, db)
	otherID := seedOrderCustomer(t, db)
	shopID := seedOrderShop(t, db, customerID)

	base := time.Now().UTC().Truncate(time.Second)
	older := testOrder(customerID, shopID, base.Add(-time.Hour))
	newer := testOrder(customerID, shopID, base)
	foreign := testOrder(otherID, shopID, base)
	insertOrder(t, db, repo, older)
	insertOrder(t, db, repo, newer)
	insertOrder(t, db, repo, foreign)

	orders, err := repo.FindByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestOrderRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	customerID := seedOrderCustomer(t, db)
	shopID := seedOrderShop(t, db, customerID)

	order := testOrder(customerID, shopID, time.Now().UTC().Truncate(time.Second))
	insertOrder(t, db, repo, order)

	now := time.Now().UTC().Truncate(time.Second)
	ready := now.Add(15 * time.Minute)
	order.Status = domain.OrderStatusConfirmed
	order.UpdatedAt = &now
	order.EstimatedReadyTime = &ready

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, tx, order))
	require.NoError(t, tx.Commit())

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, found.Status)
	require.NotNil(t, found.EstimatedReadyTime)
	assert.Equal(t, ready, found.EstimatedReadyTime.UTC())
}

func TestOrderRepository_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	missing := testOrder(uuid.New(), uuid.New(), time.Now())
	err = repo.Update(context.Background(), tx, missing)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderItemRepository_InsertAndFindByOrderID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	orderRepo := NewMySQLOrderRepository(db)
	itemRepo := NewMySQLOrderItemRepository(db)
	ctx := context.Background()

	customerID := seedOrderCustomer(t, db)
	shopID := seedOrderShop(t, db, customerID)
	menuItemID := seedMenuItemRow(t, db, shopID)

	order := testOrder(customerID, shopID, time.Now().UTC().Truncate(time.Second))

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, orderRepo.Insert(ctx, tx, order))
	item := domain.OrderItem{
		ID:              uuid.New(),
		OrderID:         order.ID,
		MenuItemID:      menuItemID,
		Quantity:        2,
		UnitPriceCents:  250,
		TotalPriceCents: 500,
	}
	require.NoError(t, itemRepo.Insert(ctx, tx, item))
	require.NoError(t, tx.Commit())

	items, err := itemRepo.FindByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, menuItemID, items[0].MenuItemID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(500), items[0].TotalPriceCents)
	assert.Nil(t, items[0].SpecialInstructions)
}
