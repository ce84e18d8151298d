package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secreto123", 4) // low cost to keep the test fast
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secreto123" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := VerifyPassword(hash, "secreto123"); err != nil {
		t.Errorf("VerifyPassword with correct password: %v", err)
	}

	if err := VerifyPassword(hash, "incorrecta"); err == nil {
		t.Error("expected error for wrong password")
	}
}

func TestHashPasswordDefaultCost(t *testing.T) {
	// cost <= 0 falls back to the default
	if _, err := HashPassword("secreto123", 0); err != nil {
		t.Fatalf("HashPassword with zero cost: %v", err)
	}
}

func TestIsPasswordValid(t *testing.T) {
	if IsPasswordValid("abc") {
		t.Error("short password should be invalid")
	}
	if !IsPasswordValid("abcdef") {
		t.Error("six characters should be valid")
	}
}
