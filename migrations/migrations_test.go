package migrations

import (
	"errors"
	"io/fs"
	"testing"
)

func TestUpRequiresDSN(t *testing.T) {
	if err := Up(""); !errors.Is(err, ErrEmptyDSN) {
		t.Fatalf("Up(\"\") = %v, want ErrEmptyDSN", err)
	}
}

func TestEmbeddedPairs(t *testing.T) {
	// Arrange
	ups, err := fs.Glob(FS, "*.up.sql")
	if err != nil {
		t.Fatalf("glob up: %v", err)
	}
	downs, err := fs.Glob(FS, "*.down.sql")
	if err != nil {
		t.Fatalf("glob down: %v", err)
	}

	// Assert
	if len(ups) == 0 || len(ups) != len(downs) {
		t.Fatalf("up = %v, down = %v, want matching pairs", ups, downs)
	}
}
