package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secreta123")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "Secreta123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := CheckPassword(hash, "Secreta123"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPassword(hash, "otra"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestSessionTokens(t *testing.T) {
	first, err := NewSessionToken()
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	second, err := NewSessionToken()
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct tokens")
	}
	if HashToken(first) != HashToken(first) {
		t.Fatal("expected deterministic token hash")
	}
	if HashToken(first) == first {
		t.Fatal("hash must not equal the token")
	}
}
