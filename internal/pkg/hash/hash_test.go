package hash

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHMACSHA256(t *testing.T) {
	// Arrange
	h := NewHMACSHA256("server-secret")

	// Act
	digest, err := h.Hash("482913")

	// Assert
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if len(digest) != 64 {
		t.Fatalf("digest length = %d, want 64 hex chars", len(digest))
	}
	if !h.Verify(string(digest), "482913") {
		t.Fatalf("Verify rejected the original code")
	}
	if h.Verify(string(digest), "482914") {
		t.Fatalf("Verify accepted a different code")
	}
	if NewHMACSHA256("other").Verify(string(digest), "482913") {
		t.Fatalf("Verify accepted a digest made with another secret")
	}
}

func TestBcrypt(t *testing.T) {
	// Arrange
	h := NewBcrypt(bcrypt.MinCost, "pepper")

	// Act
	digest, err := h.Hash("correct horse")

	// Assert
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !h.Verify(string(digest), "correct horse") {
		t.Fatalf("Verify rejected the password")
	}
	if NewBcrypt(bcrypt.MinCost, "").Verify(string(digest), "correct horse") {
		t.Fatalf("Verify accepted the password without pepper")
	}
}
