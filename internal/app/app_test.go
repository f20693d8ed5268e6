package app

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/shared/constant"
)

func TestNewEnforcer(t *testing.T) {
	e, err := newEnforcer()
	if err != nil {
		t.Fatalf("newEnforcer: %v", err)
	}

	tests := []struct {
		name string
		sub  string
		act  string
		want bool
	}{
		{name: "admin reads users", sub: "ADMIN", act: constant.PermActRead, want: true},
		{name: "admin deletes users", sub: "ADMIN", act: constant.PermActDelete, want: true},
		{name: "user cannot read users", sub: "USER", act: constant.PermActRead, want: false},
		{name: "unknown role", sub: "GUEST", act: constant.PermActCreate, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := e.Enforce(tt.sub, constant.PermIdentityUsers, tt.act)

			// Assert
			if err != nil {
				t.Fatalf("Enforce: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Enforce(%s, %s) = %v, want %v", tt.sub, tt.act, got, tt.want)
			}
		})
	}
}

func TestWaitReadyRetriesUntilProbeSucceeds(t *testing.T) {
	// Arrange
	calls := 0
	probe := func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	// Act
	err := waitReady(context.Background(), "db", 5, probe)

	// Assert
	if err != nil {
		t.Fatalf("waitReady() = %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestWaitReadyGivesUp(t *testing.T) {
	// Arrange
	errDown := errors.New("down")
	calls := 0

	// Act
	err := waitReady(context.Background(), "redis", 1, func(context.Context) error {
		calls++
		return errDown
	})

	// Assert
	if !errors.Is(err, errDown) {
		t.Fatalf("waitReady() = %v, want down", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestCommittedConfigBuildsJWT(t *testing.T) {
	// Arrange
	data, err := os.ReadFile("../../config/config.yaml")
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	cfg, err := config.NewViperFromBytes("yaml", data)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	// Act
	issuer, err := newJWT(cfg, clock.New(), uid.NewUUID())

	// Assert
	if err != nil {
		t.Fatalf("newJWT() = %v", err)
	}
	token, err := issuer.Generate(jwt.Principal{UserID: 7, Phone: "+5511999990000"})
	if err != nil {
		t.Fatalf("Generate() = %v", err)
	}
	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() = %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("claims.UserID = %d, want 7", claims.UserID)
	}
}
