// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash prefix = %q, want $argon2id$", hash[:10])
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	second, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not argon", "$bcrypt$whatever"},
		{"truncated", "$argon2id$v=19$m=65536"},
		{"bad base64", "$argon2id$v=19$m=65536,t=1,p=4$!!!$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassword("anything", tt.hash)
			if err == nil {
				t.Error("expected error for malformed hash")
			}
			if ok {
				t.Error("malformed hash verified")
			}
		})
	}
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPasswordTimingSafe("secret", &hash)
	if err != nil {
		t.Fatalf("VerifyPasswordTimingSafe: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	// Missing hash still burns a verification but never matches.
	ok, err = VerifyPasswordTimingSafe("secret", nil)
	if err != nil {
		t.Fatalf("VerifyPasswordTimingSafe(nil): %v", err)
	}
	if ok {
		t.Error("nil hash verified")
	}
}

func TestGenerateResetToken(t *testing.T) {
	first, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}

	second, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}

	if first == second {
		t.Error("two reset tokens are identical")
	}
	if len(first) < 32 {
		t.Errorf("token too short: %d chars", len(first))
	}
}

func TestHashTokenAndCompare(t *testing.T) {
	token, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}

	hash := HashToken(token)
	if hash == token {
		t.Error("hash equals plaintext token")
	}
	if HashToken(token) != hash {
		t.Error("hashing is not deterministic")
	}

	if !CompareTokenHash(token, hash) {
		t.Error("token did not match its own hash")
	}
	if CompareTokenHash("other-token", hash) {
		t.Error("wrong token matched")
	}
	if CompareTokenHash("", hash) {
		t.Error("empty token matched")
	}
}
