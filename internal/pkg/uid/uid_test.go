package uid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsVersion7(t *testing.T) {
	// Act
	id, err := uuid.Parse(NewUUID().Generate())

	// Assert
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id.Version() != 7 {
		t.Fatalf("version = %d, want 7", id.Version())
	}
}

func TestSnowflakeIncreasing(t *testing.T) {
	// Arrange
	gen, err := NewSnowflakeNode(1)
	if err != nil {
		t.Fatalf("NewSnowflakeNode: %v", err)
	}

	// Act
	a, b := gen.Generate(), gen.Generate()

	// Assert
	if a <= 0 || b <= a {
		t.Fatalf("ids not increasing: %d, %d", a, b)
	}
}

func TestSnowflakeNodeRange(t *testing.T) {
	if _, err := NewSnowflakeNode(1024); err != ErrNodeOutOfRange {
		t.Fatalf("err = %v", err)
	}
}
