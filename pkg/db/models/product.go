package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. Deletion is soft: rows stay in
// place with is_active=false so order snapshots keep a referent.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	Category    string          `gorm:"column:category;not null"`
	ImageURL    *string         `gorm:"column:image_url"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	CreatedBy   uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
