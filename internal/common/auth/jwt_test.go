package auth

import (
	"testing"
	"time"

	"github.com/automaster/automaster/internal/common/config"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	cfg := config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "automaster",
		Audience:  "admin-api",
	}

	token, expiresAt, err := GenerateAccessToken(cfg, "user-1", []string{"Admin"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "Admin" {
		t.Fatalf("expected roles [Admin], got %v", claims.Roles)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "secret-a"}
	token, _, err := GenerateAccessToken(cfg, "user-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(config.AuthConfig{JWTSecret: "secret-b"}, token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}

func TestGenerateAccessTokenRequiresSubjectAndSecret(t *testing.T) {
	if _, _, err := GenerateAccessToken(config.AuthConfig{JWTSecret: "s"}, "", nil, time.Hour); err == nil {
		t.Fatalf("expected error for empty subject")
	}
	if _, _, err := GenerateAccessToken(config.AuthConfig{}, "user-1", nil, time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
