package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwtlib.RegisteredClaims{ExpiresAt: jwtlib.NewNumericDate(exp)}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("unit"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestExpiryReadsClaimWithoutVerification(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := Expiry(signed(t, exp))
	if !ok {
		t.Fatal("expected expiry claim")
	}
	if !got.Equal(exp) {
		t.Fatalf("expiry = %v, want %v", got, exp)
	}
}

func TestExpiryOnOpaqueToken(t *testing.T) {
	if _, ok := Expiry("not-a-jwt"); ok {
		t.Fatal("opaque token must report no expiry")
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()
	if !Expired(signed(t, now.Add(-time.Minute)), now) {
		t.Fatal("past expiry must read as expired")
	}
	if Expired(signed(t, now.Add(time.Minute)), now) {
		t.Fatal("future expiry must not read as expired")
	}
	if Expired("opaque-token", now) {
		t.Fatal("opaque tokens are never locally expired")
	}
}
