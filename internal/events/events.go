package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stream identifies which topic an event is published to.
type Stream string

const (
	StreamCatalog Stream = "catalog"
	StreamOrders  Stream = "orders"
)

// Event types carried in the envelope and message attributes.
const (
	TypeProductCreated     = "product.created"
	TypeStockUpdated       = "product.stock_updated"
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

// Event is the envelope published for every domain event.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func newEvent(eventType string, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// ProductCreatedData is emitted when a new product enters the catalog.
type ProductCreatedData struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

// NewProductCreated builds a product.created event.
func NewProductCreated(productID uuid.UUID, name string, price decimal.Decimal, stock int) Event {
	return newEvent(TypeProductCreated, ProductCreatedData{
		ProductID: productID,
		Name:      name,
		Price:     price,
		Stock:     stock,
	})
}

// StockUpdatedData is emitted whenever a product's stock level changes.
type StockUpdatedData struct {
	ProductID uuid.UUID `json:"product_id"`
	NewStock  int       `json:"new_stock"`
}

// NewStockUpdated builds a product.stock_updated event.
func NewStockUpdated(productID uuid.UUID, newStock int) Event {
	return newEvent(TypeStockUpdated, StockUpdatedData{ProductID: productID, NewStock: newStock})
}

// OrderPlacedData is emitted when an order is accepted.
type OrderPlacedData struct {
	OrderID    uuid.UUID       `json:"order_id"`
	UserID     uuid.UUID       `json:"user_id"`
	Total      decimal.Decimal `json:"total"`
	ProductIDs []uuid.UUID     `json:"product_ids"`
}

// NewOrderPlaced builds an order.placed event.
func NewOrderPlaced(orderID, userID uuid.UUID, total decimal.Decimal, productIDs []uuid.UUID) Event {
	return newEvent(TypeOrderPlaced, OrderPlacedData{
		OrderID:    orderID,
		UserID:     userID,
		Total:      total,
		ProductIDs: productIDs,
	})
}

// OrderStatusChangedData is emitted on every order status transition.
type OrderStatusChangedData struct {
	OrderID   uuid.UUID `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
}

// NewOrderStatusChanged builds an order.status_changed event.
func NewOrderStatusChanged(orderID uuid.UUID, oldStatus, newStatus string) Event {
	return newEvent(TypeOrderStatusChanged, OrderStatusChangedData{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
}
