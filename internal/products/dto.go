package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelane/storelane-backend/pkg/db/models"
)

// ProductDTO is the transport shape for catalog reads.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	ImageURL    *string         `json:"image_url,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    *string
}

// UpdateProductInput holds optional mutation values; nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	ImageURL    *string
	IsActive    *bool
}

// ListProductsInput combines catalog filters with paging.
type ListProductsInput struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}

	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromModels(rows []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
