package clock

import (
	"testing"
	"time"
)

func TestManualAdvance(t *testing.T) {
	// Arrange
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewManual(start)

	// Act
	c.Advance(5*time.Minute + time.Second)

	// Assert
	if got := c.Now(); !got.Equal(start.Add(301 * time.Second)) {
		t.Fatalf("now = %s", got)
	}
}

func TestTimeClockerIsUTC(t *testing.T) {
	if loc := New().Now().Location(); loc != time.UTC {
		t.Fatalf("location = %s", loc)
	}
}
