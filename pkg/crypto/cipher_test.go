package crypto

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	sealed, err := EncryptString("secret", "hello fair")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	plain, err := DecryptToString("secret", sealed)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "hello fair" {
		t.Fatalf("unexpected plaintext %q", plain)
	}
}

func TestEncryptProducesFreshNonce(t *testing.T) {
	a, err := EncryptString("secret", "same input")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	b, err := EncryptString("secret", "same input")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two encryptions of the same input must differ")
	}
}

func TestDecryptRejectsTamperedPayload(t *testing.T) {
	sealed, err := EncryptString("secret", "payload")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := DecryptToString("secret", sealed); err == nil {
		t.Fatal("expected tampered ciphertext to fail")
	}
}

func TestDecryptRejectsShortPayload(t *testing.T) {
	if _, err := DecryptToString("secret", []byte{1, 2, 3}); err == nil {
		t.Fatal("expected short payload to fail")
	}
}
