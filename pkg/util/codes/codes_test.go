package codes

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestGenerateVerificationToken(t *testing.T) {
	a, err := GenerateVerificationToken()
	if err != nil {
		t.Fatalf("GenerateVerificationToken() error = %v", err)
	}
	b, _ := GenerateVerificationToken()

	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Errorf("token is not hex: %q", a)
	}
	if a == b {
		t.Error("two tokens are equal")
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	if _, err := GenerateSecureToken(0); err != ErrInvalidLength {
		t.Errorf("GenerateSecureToken(0) error = %v", err)
	}
	if _, err := GenerateCode(0); err != ErrInvalidLength {
		t.Errorf("GenerateCode(0) error = %v", err)
	}
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(20)
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if len(code) != 20 {
		t.Errorf("len = %d", len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(charsetMixedAlphanumeric, r) {
			t.Errorf("unexpected rune %q", r)
		}
	}
}
