package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/storelane/storelane-backend/pkg/config"
	"github.com/storelane/storelane-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "secret",
		Issuer:          "storelane",
		Audience:        "storelane-api",
		ExpirationHours: 168,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()

	payload := AccessTokenPayload{
		UserID: userID,
		Email:  "shopper@example.com",
		Role:   enums.UserRoleCustomer,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	gotID, err := claims.UserID()
	if err != nil {
		t.Fatalf("parse subject: %v", err)
	}
	if gotID != userID {
		t.Fatalf("expected sub %s, got %s", userID, gotID)
	}
	if claims.Email != payload.Email {
		t.Fatalf("unexpected email %s", claims.Email)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(168 * time.Hour)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{UserID: uuid.New(), Email: "a@b.com", Role: enums.UserRoleAdmin}

	token, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.ExpirationHours = 1
	payload := AccessTokenPayload{UserID: uuid.New(), Email: "a@b.com", Role: enums.UserRoleCustomer}

	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseAccessTokenWrongIssuer(t *testing.T) {
	mintCfg := testJWTConfig()
	mintCfg.Issuer = "someone-else"

	payload := AccessTokenPayload{UserID: uuid.New(), Email: "a@b.com", Role: enums.UserRoleCustomer}
	token, err := MintAccessToken(mintCfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(testJWTConfig(), token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestParseAccessTokenWrongAudience(t *testing.T) {
	mintCfg := testJWTConfig()
	mintCfg.Audience = "other-api"

	payload := AccessTokenPayload{UserID: uuid.New(), Email: "a@b.com", Role: enums.UserRoleCustomer}
	token, err := MintAccessToken(mintCfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(testJWTConfig(), token); err == nil {
		t.Fatal("expected audience mismatch error")
	}
}

func TestMintAccessTokenInvalidRole(t *testing.T) {
	payload := AccessTokenPayload{UserID: uuid.New(), Email: "a@b.com", Role: ""}

	if _, err := MintAccessToken(testJWTConfig(), time.Now(), payload); err == nil {
		t.Fatal("expected invalid role error")
	}
}
