package jwt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
)

func newTestJWT(t *testing.T, clk *clock.Manual) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "otpgate",
		Audiences: []string{"otpgate-app"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("NewHS512: %v", err)
	}
	return j
}

func TestGenerateVerify(t *testing.T) {
	// Arrange
	clk := clock.NewManual(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	j := newTestJWT(t, clk)

	// Act
	token, err := j.Generate(Principal{UserID: 42, Phone: "+5511999990000", Roles: []string{"ADMIN"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	claims, err := j.Verify(token)

	// Assert
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 42 || claims.Subject != "42" {
		t.Fatalf("claims user = %d/%s", claims.UserID, claims.Subject)
	}
	if claims.Phone != "+5511999990000" || !claims.HasRole("ADMIN") || claims.HasRole("USER") {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVerifyExpired(t *testing.T) {
	// Arrange
	clk := clock.NewManual(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	j := newTestJWT(t, clk)
	token, err := j.Generate(Principal{UserID: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Act
	clk.Advance(2 * time.Hour)
	_, err = j.Verify(token)

	// Assert
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestNewHS512ShortSecret(t *testing.T) {
	if _, err := NewHS512(Config{Secret: []byte("short")}); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("err = %v", err)
	}
}

func TestAuthContext(t *testing.T) {
	if GetAuth(context.Background()) != nil {
		t.Fatalf("empty context returned claims")
	}

	ctx := SetAuth(context.Background(), Claims{UserID: 7})
	if clm := GetAuth(ctx); clm == nil || clm.UserID != 7 {
		t.Fatalf("claims = %+v", clm)
	}
}
