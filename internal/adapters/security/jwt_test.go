package security

import (
	"testing"
	"time"
)

func TestHMACVerifierRoundTrip(t *testing.T) {
	verifier, err := NewHMACVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	token, err := verifier.Sign("user-1", "affiliate", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "affiliate" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestHMACVerifierRejectsWrongSecret(t *testing.T) {
	signer, _ := NewHMACVerifier("secret-a")
	verifier, _ := NewHMACVerifier("secret-b")
	token, err := signer.Sign("user-1", "affiliate", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestHMACVerifierRejectsExpired(t *testing.T) {
	verifier, _ := NewHMACVerifier("test-secret")
	token, err := verifier.Sign("user-1", "affiliate", -2*time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}

func TestHMACVerifierRequiresSecret(t *testing.T) {
	if _, err := NewHMACVerifier(""); err == nil {
		t.Fatalf("empty secret must be rejected")
	}
}

func TestHMACVerifierRejectsGarbage(t *testing.T) {
	verifier, _ := NewHMACVerifier("test-secret")
	if _, err := verifier.Verify("not-a-jwt"); err == nil {
		t.Fatalf("malformed token must be rejected")
	}
}
