package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storelane/storelane-backend/pkg/db/models"
	"github.com/storelane/storelane-backend/pkg/enums"
	"github.com/storelane/storelane-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID)

	return r.page(qb, params)
}

func (r *repository) ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{})
	if status != nil {
		qb = qb.Where("status = ?", *status)
	}

	return r.page(qb, params)
}

func (r *repository) page(qb *gorm.DB, params pagination.Params) ([]models.Order, int64, error) {
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	err := qb.
		Preload("Items").
		Order("created_at DESC").
		Order("id DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
