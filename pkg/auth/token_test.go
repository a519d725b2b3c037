package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Stylish87l/RetailFlow/pkg/config"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "retailflow-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Role:     enums.UserRoleCashier,
	}

	token, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("expected user id %s, got %s", payload.UserID, claims.UserID)
	}
	if claims.TenantID != payload.TenantID {
		t.Fatalf("expected tenant id %s, got %s", payload.TenantID, claims.TenantID)
	}
	if claims.Role != enums.UserRoleCashier {
		t.Fatalf("expected role cashier, got %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %q, got %q", cfg.Issuer, claims.Issuer)
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	payload := AccessTokenPayload{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Role:     enums.UserRoleAdmin,
	}

	t.Run("missingSecret", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.Secret = ""
		if _, err := MintAccessToken(cfg, time.Now(), payload); err == nil {
			t.Fatal("expected error for missing secret")
		}
	})

	t.Run("invalidRole", func(t *testing.T) {
		bad := payload
		bad.Role = "superuser"
		if _, err := MintAccessToken(testJWTConfig(), time.Now(), bad); err == nil {
			t.Fatal("expected error for invalid role")
		}
	})

	t.Run("missingTenant", func(t *testing.T) {
		bad := payload
		bad.TenantID = uuid.Nil
		if _, err := MintAccessToken(testJWTConfig(), time.Now(), bad); err == nil {
			t.Fatal("expected error for missing tenant")
		}
	})
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Role:     enums.UserRoleStaff,
	}

	// issued far enough back that the TTL has elapsed
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), payload)
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Role:     enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature mismatch to fail validation")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Role:     enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch to fail validation")
	}
}
