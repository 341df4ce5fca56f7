package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storelane/storelane-backend/internal/events"
	"github.com/storelane/storelane-backend/pkg/db/models"
	"github.com/storelane/storelane-backend/pkg/enums"
	pkgerrors "github.com/storelane/storelane-backend/pkg/errors"
	"github.com/storelane/storelane-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Principal identifies the authenticated caller for ownership checks.
type Principal struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsAdmin reports whether the caller holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == enums.UserRoleAdmin
}

// Service defines the order lifecycle operations.
type Service interface {
	Place(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID, caller Principal) (*OrderDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID, page, limit int) (*pagination.Page[OrderDTO], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus enums.OrderStatus) (*StatusChangeDTO, error)
	Cancel(ctx context.Context, id uuid.UUID, callerUserID uuid.UUID) (*OrderDTO, error)
	ListAll(ctx context.Context, status *enums.OrderStatus, page, limit int) (*pagination.Page[OrderDTO], error)
}

type service struct {
	repo      Repository
	tx        txRunner
	publisher events.Publisher
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, publisher events.Publisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	return &service{repo: repo, tx: tx, publisher: publisher}, nil
}

// Place persists the order and its item snapshots atomically. The total is
// the sum of the supplied unit prices times quantities.
func (s *service) Place(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item required")
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))
	productIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item unit price cannot be negative")
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
		productIDs = append(productIDs, item.ProductID)
	}

	order := &models.Order{
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		TotalAmount:     total,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		for i := range items {
			items[i].OrderID = created.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order items")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Items = items

	s.publisher.Publish(ctx, events.StreamOrders,
		events.NewOrderPlaced(order.ID, userID, total, productIDs))

	return FromModel(order), nil
}

// Get returns the order when the caller owns it or is an admin.
func (s *service) Get(ctx context.Context, id uuid.UUID, caller Principal) (*OrderDTO, error) {
	order, err := s.repo.FindOrderWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}

	if order.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller")
	}

	return FromModel(order), nil
}

// ListMine returns the caller's orders, newest first.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID, page, limit int) (*pagination.Page[OrderDTO], error) {
	params := pagination.Normalize(page, limit)
	rows, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	result := pagination.NewPage(fromModels(rows), total, params)
	return &result, nil
}

// UpdateStatus overwrites the status without transition checks. Forward-only
// enforcement is deliberately absent here; only Cancel guards on ordering.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus enums.OrderStatus) (*StatusChangeDTO, error) {
	if !newStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", newStatus))
	}

	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}

	oldStatus := order.Status
	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}

	s.publisher.Publish(ctx, events.StreamOrders,
		events.NewOrderStatusChanged(id, oldStatus.String(), newStatus.String()))

	return &StatusChangeDTO{ID: id, OldStatus: oldStatus, NewStatus: newStatus}, nil
}

// Cancel moves the order to cancelled while it has not shipped yet.
func (s *service) Cancel(ctx context.Context, id uuid.UUID, callerUserID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindOrderWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}

	if order.UserID != callerUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller")
	}
	if !order.Status.Cancellable() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order in status %q can no longer be cancelled", order.Status))
	}

	oldStatus := order.Status
	if err := s.repo.UpdateStatus(ctx, id, enums.OrderStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cancel order")
	}
	order.Status = enums.OrderStatusCancelled

	s.publisher.Publish(ctx, events.StreamOrders,
		events.NewOrderStatusChanged(id, oldStatus.String(), enums.OrderStatusCancelled.String()))

	return FromModel(order), nil
}

// ListAll returns every order, optionally filtered by exact status.
func (s *service) ListAll(ctx context.Context, status *enums.OrderStatus, page, limit int) (*pagination.Page[OrderDTO], error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", *status))
	}

	params := pagination.Normalize(page, limit)
	rows, total, err := s.repo.ListAll(ctx, status, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list all orders")
	}

	result := pagination.NewPage(fromModels(rows), total, params)
	return &result, nil
}
