package security

import (
	"testing"
	"time"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateAdminToken(secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	claims, err := ValidateJWT(token, secret)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if !IsAdminClaims(claims) {
		t.Error("expected admin role claim")
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAdminToken("right-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	if _, err := ValidateJWT(token, "wrong-secret"); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestValidateJWTRejectsExpiredToken(t *testing.T) {
	token, err := GenerateAdminToken("secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	if _, err := ValidateJWT(token, "secret"); err == nil {
		t.Error("expected validation to fail for an expired token")
	}
}
