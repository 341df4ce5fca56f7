package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storelane/storelane-backend/pkg/db/models"
	"github.com/storelane/storelane-backend/pkg/enums"
	"github.com/storelane/storelane-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_amount NUMERIC NOT NULL,
  shipping_address TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func newOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          status,
		TotalAmount:     decimal.RequireFromString("25.00"),
		ShippingAddress: "1 Main St",
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	require.NoError(t, db.Omit("Items").Create(order).Error)

	item := &models.OrderItem{
		ID:          uuid.New(),
		OrderID:     order.ID,
		ProductID:   uuid.New(),
		ProductName: "Test Item",
		UnitPrice:   decimal.RequireFromString("12.50"),
		Quantity:    2,
		CreatedAt:   created,
	}
	require.NoError(t, db.Create(item).Error)
	return order
}

func TestRepositoryFindOrderWithItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	created := newOrder(t, db, userID, enums.OrderStatusPending, time.Now().UTC())

	order, err := repo.FindOrderWithItems(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, order.UserID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Test Item", order.Items[0].ProductName)
	assert.Equal(t, 2, order.Items[0].Quantity)

	_, err = repo.FindOrderWithItems(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByUserPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	otherID := uuid.New()
	now := time.Now().UTC()
	oldest := newOrder(t, db, userID, enums.OrderStatusPending, now.Add(-2*time.Hour))
	newest := newOrder(t, db, userID, enums.OrderStatusConfirmed, now)
	newOrder(t, db, otherID, enums.OrderStatusPending, now)

	rows, total, err := repo.ListByUser(ctx, userID, pagination.Normalize(1, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 1)
	assert.Equal(t, newest.ID, rows[0].ID)

	rows, _, err = repo.ListByUser(ctx, userID, pagination.Normalize(2, 1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].ID)
}

func TestRepositoryListAllStatusFilter(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	newOrder(t, db, uuid.New(), enums.OrderStatusPending, now.Add(-time.Hour))
	shipped := newOrder(t, db, uuid.New(), enums.OrderStatusShipped, now)

	rows, total, err := repo.ListAll(ctx, nil, pagination.Normalize(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	status := enums.OrderStatusShipped
	rows, total, err = repo.ListAll(ctx, &status, pagination.Normalize(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, shipped.ID, rows[0].ID)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newOrder(t, db, uuid.New(), enums.OrderStatusPending, time.Now().UTC())

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped))

	found, err := repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, found.Status)

	err = repo.UpdateStatus(ctx, uuid.New(), enums.OrderStatusShipped)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
