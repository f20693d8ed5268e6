package hash

// Hash turns a secret into a storable digest and checks candidates against it.
type Hash interface {
	// Hash returns the digest of str.
	Hash(str string) ([]byte, error)
	// Verify reports whether str produces hashed.
	Verify(hashed, str string) bool
}
