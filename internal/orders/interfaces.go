package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storelane/storelane-backend/pkg/db/models"
	"github.com/storelane/storelane-backend/pkg/enums"
	"github.com/storelane/storelane-backend/pkg/pagination"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}
