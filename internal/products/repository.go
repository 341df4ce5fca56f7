package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storelane/storelane-backend/pkg/db/models"
	"github.com/storelane/storelane-backend/pkg/pagination"
)

// ListFilters narrows the public catalog listing.
type ListFilters struct {
	Category string
	Search   string
}

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update persists the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Deactivate soft-deletes the product so existing orders keep their reference.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns active products matching the filters plus the unpaged total.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if category := strings.TrimSpace(filters.Category); category != "" {
		qb = qb.Where("category = ?", category)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := qb.
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

// ListCategories returns the distinct categories of active products.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).
		Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateStock overwrites the stock level for the product.
func (r *Repository) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", stock)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
