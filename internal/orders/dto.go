package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelane/storelane-backend/pkg/db/models"
	"github.com/storelane/storelane-backend/pkg/enums"
)

// OrderItemInput is the client-supplied snapshot of a product at order time.
// Price and name are taken as sent; they are not re-checked against the live
// catalog (price-lock-at-order-time).
type OrderItemInput struct {
	ProductID   uuid.UUID       `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderInput carries the payload for creating an order.
type PlaceOrderInput struct {
	ShippingAddress string           `json:"shipping_address" validate:"required"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// OrderItemDTO is the transport shape of a single order line.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// OrderDTO is the transport shape of an order with its items.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	Status          enums.OrderStatus `json:"status"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	ShippingAddress string            `json:"shipping_address"`
	Items           []OrderItemDTO    `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// StatusChangeDTO reports the transition applied by an admin status update.
type StatusChangeDTO struct {
	ID        uuid.UUID         `json:"id"`
	OldStatus enums.OrderStatus `json:"old_status"`
	NewStatus enums.OrderStatus `json:"new_status"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	return &OrderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func fromModels(rows []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
