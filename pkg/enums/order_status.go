package enums

import "fmt"

// OrderStatus tracks the lifecycle of an order. The fulfilment states are
// totally ordered; cancelled and refunded sit past shipped so the single
// ordinal comparison used by cancellation also rejects terminal orders.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

var orderStatusOrdinals = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
	OrderStatusCancelled:  5,
	OrderStatusRefunded:   6,
}

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	_, ok := orderStatusOrdinals[o]
	return ok
}

// Ordinal returns the position of the status in the lifecycle ordering.
// Unknown statuses sort last.
func (o OrderStatus) Ordinal() int {
	if ordinal, ok := orderStatusOrdinals[o]; ok {
		return ordinal
	}
	return len(orderStatusOrdinals)
}

// Cancellable reports whether an order in this status may still be cancelled
// by its owner. Orders at or past shipped are locked in.
func (o OrderStatus) Cancellable() bool {
	return o.IsValid() && o.Ordinal() < OrderStatusShipped.Ordinal()
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
