package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/storelane/storelane-backend/api/middleware"
	"github.com/storelane/storelane-backend/internal/auth"
	"github.com/storelane/storelane-backend/internal/users"
	"github.com/storelane/storelane-backend/pkg/enums"
	pkgerrors "github.com/storelane/storelane-backend/pkg/errors"
)

type stubAuthService struct {
	resp *auth.AuthResponse
	err  error
}

func (s stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return s.resp, s.err
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	return s.resp, s.err
}

func TestAuthRegisterSuccess(t *testing.T) {
	resp := &auth.AuthResponse{
		AccessToken: "access-token",
		User: &users.UserDTO{
			ID:       uuid.New(),
			Username: "tester",
			Email:    "tester@example.com",
			Role:     enums.UserRoleCustomer,
		},
	}
	handler := AuthRegister(stubAuthService{resp: resp}, nil)

	body := []byte(`{"username":"tester","email":"tester@example.com","password":"supersecret"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data auth.AuthResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" {
		t.Fatalf("unexpected token %s", envelope.Data.AccessToken)
	}
	if envelope.Data.User == nil || envelope.Data.User.Email != "tester@example.com" {
		t.Fatalf("unexpected user %+v", envelope.Data.User)
	}
}

func TestAuthRegisterRejectsBadPayload(t *testing.T) {
	handler := AuthRegister(stubAuthService{}, nil)

	body := []byte(`{"username":"x","email":"not-an-email","password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthLoginSurfacesServiceError(t *testing.T) {
	handler := AuthLogin(stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}, nil)

	body := []byte(`{"email":"tester@example.com","password":"wrong-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "invalid email or password" {
		t.Fatalf("unexpected message %s", envelope.Error.Message)
	}
}

func TestAuthValidateEchoesIdentity(t *testing.T) {
	handler := AuthValidate(nil)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleAdmin))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			UserID string `json:"userId"`
			Role   string `json:"role"`
			Valid  bool   `json:"valid"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.UserID != userID.String() || envelope.Data.Role != "admin" || !envelope.Data.Valid {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAuthValidateRequiresContext(t *testing.T) {
	handler := AuthValidate(nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
