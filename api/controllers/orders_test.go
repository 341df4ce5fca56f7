package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelane/storelane-backend/api/middleware"
	ordersvc "github.com/storelane/storelane-backend/internal/orders"
	"github.com/storelane/storelane-backend/pkg/enums"
	pkgerrors "github.com/storelane/storelane-backend/pkg/errors"
	"github.com/storelane/storelane-backend/pkg/pagination"
)

type stubOrderService struct {
	order  *ordersvc.OrderDTO
	page   *pagination.Page[ordersvc.OrderDTO]
	change *ordersvc.StatusChangeDTO
	err    error

	lastStatus enums.OrderStatus
	lastFilter *enums.OrderStatus
}

func (s *stubOrderService) Place(ctx context.Context, userID uuid.UUID, input ordersvc.PlaceOrderInput) (*ordersvc.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) Get(ctx context.Context, id uuid.UUID, caller ordersvc.Principal) (*ordersvc.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListMine(ctx context.Context, userID uuid.UUID, page, limit int) (*pagination.Page[ordersvc.OrderDTO], error) {
	return s.page, s.err
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus enums.OrderStatus) (*ordersvc.StatusChangeDTO, error) {
	s.lastStatus = newStatus
	return s.change, s.err
}

func (s *stubOrderService) Cancel(ctx context.Context, id uuid.UUID, callerUserID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListAll(ctx context.Context, status *enums.OrderStatus, page, limit int) (*pagination.Page[ordersvc.OrderDTO], error) {
	s.lastFilter = status
	return s.page, s.err
}

func testOrder() *ordersvc.OrderDTO {
	return &ordersvc.OrderDTO{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Status:          enums.OrderStatusPending,
		TotalAmount:     decimal.RequireFromString("38.97"),
		ShippingAddress: "1 Main St",
	}
}

func authedRequest(req *http.Request, role enums.UserRole) *http.Request {
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, string(role))
	return req.WithContext(ctx)
}

func TestPlaceOrderSuccess(t *testing.T) {
	svc := &stubOrderService{order: testOrder()}
	handler := PlaceOrder(svc, nil)

	body := []byte(`{"shipping_address":"1 Main St","items":[{"product_id":"` + uuid.NewString() + `","product_name":"Widget","unit_price":"12.99","quantity":3}]}`)
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body)), enums.UserRoleCustomer)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPlaceOrderRejectsEmptyItems(t *testing.T) {
	handler := PlaceOrder(&stubOrderService{order: testOrder()}, nil)

	body := []byte(`{"shipping_address":"1 Main St","items":[]}`)
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body)), enums.UserRoleCustomer)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPlaceOrderRequiresUserContext(t *testing.T) {
	handler := PlaceOrder(&stubOrderService{}, nil)

	body := []byte(`{"shipping_address":"1 Main St","items":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestGetOrderForbiddenSurfacesCode(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller")}
	handler := GetOrder(svc, nil)

	id := uuid.NewString()
	req := authedRequest(pathRequest(http.MethodGet, "/orders/"+id, "orderId", id, nil), enums.UserRoleCustomer)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestUpdateOrderStatusNormalizesInput(t *testing.T) {
	svc := &stubOrderService{change: &ordersvc.StatusChangeDTO{
		ID:        uuid.New(),
		OldStatus: enums.OrderStatusPending,
		NewStatus: enums.OrderStatusShipped,
	}}
	handler := UpdateOrderStatus(svc, nil)

	id := uuid.NewString()
	body := []byte(`{"status":"  SHIPPED "}`)
	req := authedRequest(pathRequest(http.MethodPatch, "/orders/"+id+"/status", "orderId", id, body), enums.UserRoleAdmin)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastStatus != enums.OrderStatusShipped {
		t.Fatalf("expected normalized status shipped got %q", svc.lastStatus)
	}

	var envelope struct {
		Data ordersvc.StatusChangeDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OldStatus != enums.OrderStatusPending || envelope.Data.NewStatus != enums.OrderStatusShipped {
		t.Fatalf("unexpected transition %+v", envelope.Data)
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	svc := &stubOrderService{change: &ordersvc.StatusChangeDTO{}}
	handler := UpdateOrderStatus(svc, nil)

	id := uuid.NewString()
	body := []byte(`{"status":"teleported"}`)
	req := authedRequest(pathRequest(http.MethodPatch, "/orders/"+id+"/status", "orderId", id, body), enums.UserRoleAdmin)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastStatus != "" {
		t.Fatalf("expected service untouched got %q", svc.lastStatus)
	}
}

func TestCancelOrderMapsValidationError(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeValidation, `order in status "shipped" can no longer be cancelled`)}
	handler := CancelOrder(svc, nil)

	id := uuid.NewString()
	req := authedRequest(pathRequest(http.MethodPost, "/orders/"+id+"/cancel", "orderId", id, nil), enums.UserRoleCustomer)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestListAllOrdersPassesFilter(t *testing.T) {
	page := pagination.NewPage([]ordersvc.OrderDTO{*testOrder()}, 1, pagination.Normalize(1, 20))
	svc := &stubOrderService{page: &page}
	handler := ListAllOrders(svc, nil)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/orders/admin/all?status=shipped", nil), enums.UserRoleAdmin)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastFilter == nil || *svc.lastFilter != enums.OrderStatusShipped {
		t.Fatalf("expected shipped filter got %v", svc.lastFilter)
	}
}

func TestListAllOrdersRejectsUnknownFilter(t *testing.T) {
	svc := &stubOrderService{}
	handler := ListAllOrders(svc, nil)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/orders/admin/all?status=teleported", nil), enums.UserRoleAdmin)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
}
